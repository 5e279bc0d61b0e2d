package report

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDummy(t *testing.T, s *Store, name string) Artifact {
	t.Helper()
	artifact, err := s.Write(name, func(w io.Writer) error {
		_, err := w.Write([]byte("%PDF-1.4 dummy"))
		return err
	})
	require.NoError(t, err)
	return artifact
}

func TestStoreWriteAndList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a := writeDummy(t, s, "retirement_report_jane.pdf")
	assert.Equal(t, "retirement_report_jane.pdf", a.Name)
	assert.Greater(t, a.Size, int64(0))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.Name, list[0].Name)
}

func TestStoreCollisionGetsSuffix(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first := writeDummy(t, s, "report.pdf")
	second := writeDummy(t, s, "report.pdf")
	third := writeDummy(t, s, "report.pdf")

	assert.Equal(t, "report.pdf", first.Name)
	assert.Equal(t, "report_2.pdf", second.Name)
	assert.Equal(t, "report_3.pdf", third.Name)

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestStoreDelete(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a := writeDummy(t, s, "longevity_report_x.pdf")
	require.NoError(t, s.Delete(a.Name))

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, s.Delete(a.Name), ErrArtifactNotFound)
}

func TestStoreRejectsPathTraversal(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Path("../../etc/passwd")
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	assert.ErrorIs(t, s.Delete("../secret.pdf"), ErrArtifactNotFound)
}

func TestStoreFailedRenderLeavesNoFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Write("broken.pdf", func(io.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
