package errors

import "fmt"

// Common error messages for the chg CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'chg new' to create an empty changelog",
		"Or run 'chg init' to generate one from git history",
		"Use -f/--file to point at another file",
	)
}

// ChangelogExists creates an error when a command refuses to overwrite a changelog.
func ChangelogExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("changelog already exists: %s", path),
		"Remove the file first if you really want to start over",
		"Or choose another path with -f/--file",
		"Use 'chg sync' to update an existing changelog",
	)
}

// ChangelogParseError creates an error for a changelog that cannot be parsed.
// hint describes what to fix, e.g. the offending line.
func ChangelogParseError(path string, err error, hint string) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to parse changelog %s", path),
		hint,
		"Section headers look like: ## 1.2.3 - 2021-04-20 (or ## Unreleased)",
		"Items look like: - PR#12, #7: [component] text / Author Name",
	)
}

// SyncFailed creates an error when git history cannot be merged into the changelog.
func SyncFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot synchronize %s with git history", path),
		"Check that the latest release in the changelog is tagged in git",
		"Compare with the imported history: chg init --stdout",
	)
}

// GitNotRepository creates an error when the project directory is not a git repository.
func GitNotRepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", dir),
		"Initialize with: git init",
		"Or point --dir at an existing repository",
	)
}

// GitReadFailed creates an error when history or tags cannot be read.
func GitReadFailed(dir string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to read git history in %s", dir),
		"Check the repository with: git log --first-parent",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .chg/config.yml and ~/.config/chg/config.yml for syntax errors",
		"Check CHG_* environment variables",
	)
}

// InvalidOutputFormat creates an error for an unknown --format value.
func InvalidOutputFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid output format: %s", format),
		"chg info --format text|yaml",
		"Valid formats: text, yaml",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}
