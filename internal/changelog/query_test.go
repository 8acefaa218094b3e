package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreleased(t *testing.T) {
	tests := map[string]struct {
		changelog *ChangeLog
		want      bool
	}{
		"empty": {
			changelog: &ChangeLog{},
			want:      false,
		},
		"unreleased first": {
			changelog: sampleChangeLog(),
			want:      true,
		},
		"releases only": {
			changelog: &ChangeLog{Changesets: []ChangeSet{{Header: ReleaseHeader{Version: "1.0.0"}}}},
			want:      false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.changelog.HasUnreleased())
			if tt.want {
				require.NotNil(t, tt.changelog.Unreleased())
				assert.Same(t, &tt.changelog.Changesets[0], tt.changelog.Unreleased())
			} else {
				assert.Nil(t, tt.changelog.Unreleased())
			}
		})
	}
}

func TestReleases(t *testing.T) {
	log := sampleChangeLog()

	releases := log.Releases()
	require.Len(t, releases, 3)
	assert.Equal(t, "1.1.0", releases[0].Version)
	assert.Equal(t, "0.9.0-rc-1", releases[2].Version)

	latest, ok := log.LatestRelease()
	require.True(t, ok)
	assert.Equal(t, "1.1.0", latest.Version)

	_, ok = (&ChangeLog{Changesets: []ChangeSet{{Header: Unreleased{}}}}).LatestRelease()
	assert.False(t, ok)
}

func TestFindRelease(t *testing.T) {
	log := sampleChangeLog()

	tests := map[string]struct {
		version string
		want    int
	}{
		"newest release": {version: "1.1.0", want: 1},
		"oldest release": {version: "0.9.0-rc-1", want: 3},
		"missing":        {version: "2.0.0", want: -1},
		"unreleased is not a version": {version: "Unreleased", want: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, log.FindRelease(tt.version))
		})
	}
}

func TestItemCount(t *testing.T) {
	assert.Equal(t, 4, sampleChangeLog().ItemCount())
	assert.Equal(t, 0, (&ChangeLog{}).ItemCount())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleChangeLog().Validate())
	assert.NoError(t, (&ChangeLog{}).Validate())

	bad := &ChangeLog{Changesets: []ChangeSet{
		{Header: ReleaseHeader{Version: "1.0.0"}},
		{Header: Unreleased{}},
	}}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
}
