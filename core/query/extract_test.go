package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"search prefix", "search quantum computing", "quantum computing"},
		{"no prefix", "quantum computing", "quantum computing"},
		{"find prefix", "find graph neural networks", "graph neural networks"},
		{"look up prefix", "look up dark matter", "dark matter"},
		{"search for prefix", "search for black holes", "black holes"},
		{"case insensitive", "SEARCH Quantum Computing", "Quantum Computing"},
		{"colon separator", "find: transformers", "transformers"},
		{"surrounding whitespace", "  search   protein folding  ", "protein folding"},
		{"prefix without separator", "searching for meaning", "searching for meaning"},
		{"word starting with command", "finder algorithms", "finder algorithms"},
		{"command only", "search", "search"},
		{"command and spaces only", "search   ", "search"},
		{"buscar prefix", "buscar computação quântica", "computação quântica"},
		{"procurar prefix", "procurar redes neurais", "redes neurais"},
		{"pesquisar prefix", "Pesquisar quantum", "quantum"},
		{"buscar without separator", "buscarquantum", "buscarquantum"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.input))
		})
	}
}

func TestExtract_PreservesRemainderCase(t *testing.T) {
	assert.Equal(t, "LLM Agents", Extract("Find LLM Agents"))
}
