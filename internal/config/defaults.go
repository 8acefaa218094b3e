package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_file": "CHANGELOG.md",
		"repo_dir":       ".",
		// tag_version_pattern: empty defers to the changelog's embedded config,
		// which itself defaults to "v*".
		"tag_version_pattern": "",
		"plain":               false,
		"max_sync_steps":      0,
	}
}
