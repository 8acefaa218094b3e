package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntaxFromBytes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data     string
		wantErr  bool
		wantLine int
	}{
		"valid": {
			data: "changelog_file: CHANGELOG.md\nplain: true\n",
		},
		"empty is valid": {
			data: "   \n",
		},
		"bad indentation": {
			data:     "plain: true\n  repo_dir: x\n",
			wantErr:  true,
			wantLine: 2,
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := ValidateYAMLSyntaxFromBytes([]byte(tt.data), "config.yml")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantLine, verr.Line)
			assert.Equal(t, "config.yml", verr.FilePath)
		})
	}
}

func TestValidateYAMLSyntax_MissingFile(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(t.TempDir(), "nope.yml")))
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with position": {
			err:  ValidationError{FilePath: "c.yml", Line: 3, Column: 2, Message: "bad"},
			want: "c.yml:3:2: bad",
		},
		"with field": {
			err:  ValidationError{FilePath: "c.yml", Field: "plain", Message: "bad"},
			want: "c.yml: field 'plain': bad",
		},
		"plain message": {
			err:  ValidationError{FilePath: "c.yml", Message: "bad"},
			want: "c.yml: bad",
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	line, col := extractLineColumn("yaml: line 5: could not find expected ':'")
	assert.Equal(t, 5, line)
	assert.Equal(t, 1, col)

	line, col = extractLineColumn("something else")
	assert.Zero(t, line)
	assert.Zero(t, col)

	assert.Equal(t, "could not find expected ':'", cleanYAMLError("yaml: line 5: could not find expected ':'"))
}

func TestValidateConfigValues(t *testing.T) {
	t.Parallel()

	valid := func() Configuration {
		return Configuration{ChangelogFile: "CHANGELOG.md", RepoDir: "."}
	}

	tests := map[string]struct {
		modify    func(cfg *Configuration)
		wantField string
		wantMsg   string
	}{
		"defaults are valid": {
			modify: func(cfg *Configuration) {},
		},
		"custom glob and step cap": {
			modify: func(cfg *Configuration) {
				cfg.TagVersionPattern = "release-*"
				cfg.MaxSyncSteps = 3
			},
		},
		"missing changelog file": {
			modify:    func(cfg *Configuration) { cfg.ChangelogFile = "" },
			wantField: "changelog_file",
			wantMsg:   "is required",
		},
		"negative step cap": {
			modify:    func(cfg *Configuration) { cfg.MaxSyncSteps = -1 },
			wantField: "max_sync_steps",
			wantMsg:   "must be at least 0",
		},
		"malformed glob": {
			modify:    func(cfg *Configuration) { cfg.TagVersionPattern = "v[" },
			wantField: "tag_version_pattern",
			wantMsg:   `invalid glob "v["`,
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.modify(&cfg)

			err := ValidateConfigValues(&cfg, "config.yml")
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.wantField, valErr.Field)
			assert.Equal(t, tt.wantMsg, valErr.Message)
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"ChangelogFile":     "changelog_file",
		"MaxSyncSteps":      "max_sync_steps",
		"TagVersionPattern": "tag_version_pattern",
		"Plain":             "plain",
	}

	for in, want := range tests {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}
