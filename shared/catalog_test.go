package shared

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Equal(t, catalog.Default, "005930")

	// Ensure catalog order is preserved.
	codes := make([]string, 0, len(catalog.Tickers))
	for _, ticker := range catalog.Tickers {
		codes = append(codes, ticker.Code)
	}
	want := []string{"005930", "000660", "035420", "051910", "207940"}
	if !cmp.Equal(codes, want) {
		t.Errorf("mismatching codes, got %v", cmp.Diff(codes, want))
	}

	name, ok := catalog.Name("035420")
	assert.True(t, ok)
	assert.Equal(t, name, "NAVER")

	_, ok = catalog.Name("999999")
	assert.False(t, ok)

	assert.Equal(t, catalog.Title("005930"), "삼성전자 (005930)")
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid catalog",
			doc:  "default: \"A\"\ntickers:\n  - code: \"A\"\n    name: Alpha\n",
		},
		{
			name:    "missing default",
			doc:     "default: \"B\"\ntickers:\n  - code: \"A\"\n    name: Alpha\n",
			wantErr: true,
		},
		{
			name:    "duplicate code",
			doc:     "default: \"A\"\ntickers:\n  - code: \"A\"\n    name: Alpha\n  - code: \"A\"\n    name: Again\n",
			wantErr: true,
		},
		{
			name:    "no tickers",
			doc:     "default: \"A\"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			doc:     "tickers: [",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(test.doc))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
