package facturas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func escribir(t *testing.T, ruta string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(ruta), 0o755))
	require.NoError(t, os.WriteFile(ruta, []byte("<xml/>"), 0o644))
}

func TestResolveXMLDirecto(t *testing.T) {
	dir := t.TempDir()
	escribir(t, filepath.Join(dir, "a_factura.xml"))
	escribir(t, filepath.Join(dir, "b_factura.xml"))

	trabajos, err := NewResolver(zap.NewNop()).Resolve(dir)
	require.NoError(t, err)

	// Only the first XML in listing order is processed in this layout.
	require.Len(t, trabajos, 1)
	assert.Equal(t, dir, trabajos[0].Directorio)
	assert.Equal(t, filepath.Join(dir, "a_factura.xml"), trabajos[0].XMLPath)
}

func TestResolveSubcarpetas(t *testing.T) {
	dir := t.TempDir()
	escribir(t, filepath.Join(dir, "factura1", "f1.xml"))
	escribir(t, filepath.Join(dir, "factura2", "f2.xml"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vacia"), 0o755))

	trabajos, err := NewResolver(zap.NewNop()).Resolve(dir)
	require.NoError(t, err)

	// Empty subdirectories are skipped; one job per subdirectory with XML.
	require.Len(t, trabajos, 2)
	assert.Equal(t, filepath.Join(dir, "factura1"), trabajos[0].Directorio)
	assert.Equal(t, filepath.Join(dir, "factura1", "f1.xml"), trabajos[0].XMLPath)
	assert.Equal(t, filepath.Join(dir, "factura2", "f2.xml"), trabajos[1].XMLPath)
}

func TestResolveIgnoraOtrosArchivos(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.pdf"), []byte("pdf"), 0o644))
	escribir(t, filepath.Join(dir, "sub", "f.xml"))

	trabajos, err := NewResolver(zap.NewNop()).Resolve(dir)
	require.NoError(t, err)
	require.Len(t, trabajos, 1)
	assert.Equal(t, filepath.Join(dir, "sub", "f.xml"), trabajos[0].XMLPath)
}

func TestResolveExtensionMayusculas(t *testing.T) {
	dir := t.TempDir()
	escribir(t, filepath.Join(dir, "FACTURA.XML"))

	trabajos, err := NewResolver(zap.NewNop()).Resolve(dir)
	require.NoError(t, err)
	require.Len(t, trabajos, 1)
}

func TestResolveSinNada(t *testing.T) {
	trabajos, err := NewResolver(zap.NewNop()).Resolve(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, trabajos)
}

func TestResolveDirectorioInexistente(t *testing.T) {
	_, err := NewResolver(zap.NewNop()).Resolve("/no/existe")
	assert.Error(t, err)
}
