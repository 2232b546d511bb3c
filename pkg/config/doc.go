// Package config provides configuration management for git-rewrite.
//
// Configuration is loaded from an optional YAML file. A missing file is
// not an error: every field has a documented default, so the tool works
// with no configuration at all. Values that the original workflow
// hard-coded — the branch name, the export directory, the reserved
// metadata filename — are expressed here as explicit settings so they can
// be overridden per run.
//
// # Loading
//
//	cfg, err := config.LoadConfig("git-rewrite.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Example file
//
//	branch: main
//	export:
//	  dir: export
//	  manifest_name: manifest.json
//	  meta_name: .commit-meta.json
//	  index_width: 4
//	replay:
//	  allow_dangling_parents: false
//	logging:
//	  level: info
//	  format: text
package config
