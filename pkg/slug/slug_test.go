package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Corp", "acme-corp"},
		{"special characters", "Acme & Sons, S.A.!", "acme-sons-sa"},
		{"multiple spaces", "Mi    Empresa   SRL", "mi-empresa-srl"},
		{"leading and trailing", "  --Hola Mundo--  ", "hola-mundo"},
		{"already a slug", "mi-empresa", "mi-empresa"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMakeCapsLength(t *testing.T) {
	long := "organización con un nombre descomunalmente largo que no cabe en ningún lado"
	got := Make(long)
	assert.LessOrEqual(t, len(got), 50)
	assert.NotEqual(t, "-", got[len(got)-1:])
}
