package testutil

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitRepo(t *testing.T) {
	r := NewGitRepo(t)
	first := r.Commit("first", "Alice")
	second := r.Commit("second", "Bob")

	c := r.CommitObject(second)
	assert.Equal(t, "second", c.Message)
	assert.Equal(t, "Bob", c.Author.Name)
	assert.Equal(t, 22, c.Author.When.Day())
	assert.Equal(t, []plumbing.Hash{first}, c.ParentHashes)

	r.Tag("v1.0.0", first)
	ref := r.AnnotatedTag("v2.0.0", second)
	tag, err := r.Repo.TagObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, second, tag.Target)

	light, err := r.Repo.Tag("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, first, light.Hash())
}
