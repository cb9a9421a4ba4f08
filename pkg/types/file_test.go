package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecord_Validate(t *testing.T) {
	valid := FileRecord{Path: "src/app.py", Content: "x = 1\n", Language: "python", Size: 6}
	require.NoError(t, valid.Validate())

	noPath := valid
	noPath.Path = ""
	assert.ErrorIs(t, noPath.Validate(), ErrEmptyPath)

	noLanguage := valid
	noLanguage.Language = ""
	assert.ErrorIs(t, noLanguage.Validate(), ErrMissingLanguage)
}

func TestFileRecord_IsBlank(t *testing.T) {
	assert.True(t, (&FileRecord{Content: ""}).IsBlank())
	assert.True(t, (&FileRecord{Content: " \n\t "}).IsBlank())
	assert.False(t, (&FileRecord{Content: "x"}).IsBlank())
}
