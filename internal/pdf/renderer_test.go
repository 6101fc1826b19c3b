package pdf

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func failingFontProvisioner(t *testing.T) *FontProvisioner {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return NewFontProvisioner(server.URL, server.Client(), zerolog.Nop())
}

func TestExportProducesPDFWithFallbackFont(t *testing.T) {
	exporter := NewExporter(failingFontProvisioner(t), zerolog.Nop())

	var buf bytes.Buffer
	err := exporter.Export(context.Background(), testResult(), &buf)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	require.Greater(t, buf.Len(), 500)
}

func TestExportOmitsContextNotesSection(t *testing.T) {
	exporter := NewExporter(failingFontProvisioner(t), zerolog.Nop())

	result := testResult()
	result.JordanianContextNotes = nil

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(context.Background(), result, &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
