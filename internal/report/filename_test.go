package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisFilename(t *testing.T) {
	tests := []struct {
		name        string
		colaborador string
		want        string
	}{
		{name: "spaces", colaborador: "Ana Pérez", want: "Analisis_Desempeno_Ana_Pérez.pdf"},
		{name: "runs collapse", colaborador: "Ana  -  María / López", want: "Analisis_Desempeno_Ana_María_López.pdf"},
		{name: "edges trimmed", colaborador: "  (Bruno) ", want: "Analisis_Desempeno_Bruno.pdf"},
		{name: "path separators", colaborador: "../../etc/passwd", want: "Analisis_Desempeno_etc_passwd.pdf"},
		{name: "digits kept", colaborador: "Equipo 42", want: "Analisis_Desempeno_Equipo_42.pdf"},
		{name: "nothing usable", colaborador: " -- ", want: "Analisis_Desempeno_Colaborador.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalysisFilename(tt.colaborador))
		})
	}
}
