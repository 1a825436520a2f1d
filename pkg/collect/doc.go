/*
Package collect implements the core selection and copy logic.

	+-------------+
	|    Rules    |
	| (Classify)  |
	+------+------+
	       |
	+------+------+
	|  Collector  |
	| (Plan/Copy) |
	+------+------+
	       |
	+------+------+
	|  Manifest   |
	|  (Persist)  |
	+------+------+

🎯 Purpose:
- Walks the source tree and classifies every candidate file
- Resolves flattened destination names, disambiguating collisions
- Realizes inclusion decisions as copies plus metadata records

🔄 Flow:
1. Plan: sequential walk, rule evaluation, name reservation
2. Prepare: force/clear checks on the output directory
3. Execute: byte copies, sequential or errgroup-parallel
4. Persist: one metadata document, records in discovery order

⚡ Key Responsibilities:
- Exclude-wins classification against the compiled rule set
- Walk pruning for excluded directories and the output directory
- Run-scoped state: reserved names, monotonic collision counter
- Per-file failures degrade to warnings, never abort the run

🤝 Interfaces:
- rules.RuleSet: decides inclusion for relative paths
- manifest.Manager: owns the output directory and document
- filetype.Detector: labels records with a MIME type
- log.Logger: per-file console lines and the run summary

📝 Design Philosophy:
Planning is always sequential and read-only, so destination naming is
deterministic no matter how the copies execute. Execution only ever
works from a finished plan, which is what makes dry runs exact: they
are a plan that never executes.

🔍 Example:

	c, err := collect.New(collect.Options{
		Config:   cfg,
		Rules:    ruleSet,
		Manifest: manifest.NewManager(cfg.OutputDir),
		Logger:   logger,
	})
	result, err := c.Run(ctx)
*/
package collect
