package format

import (
	"fmt"
	"time"
)

// Spanish month names, indexed by time.Month.
var mesesLargos = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

var mesesAbreviados = [...]string{
	time.January:   "Ene.",
	time.February:  "Feb.",
	time.March:     "Mar.",
	time.April:     "Abr.",
	time.May:       "May.",
	time.June:      "Jun.",
	time.July:      "Jul.",
	time.August:    "Ago.",
	time.September: "Sep.",
	time.October:   "Oct.",
	time.November:  "Nov.",
	time.December:  "Dic.",
}

// MesLargo returns the lowercase Spanish name of a month.
func MesLargo(m time.Month) string {
	return mesesLargos[m]
}

// FechaTexto renders a YYYY-MM-DD date in Spanish long form with the first
// letter capitalized, e.g. "2 de enero del 2025". No process-wide locale
// state is touched.
func FechaTexto(fecha string) (string, error) {
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return "", fmt.Errorf("la fecha debe estar en formato YYYY-MM-DD: %w", err)
	}
	texto := fmt.Sprintf("%d de %s del %d", t.Day(), mesesLargos[t.Month()], t.Year())
	return Capitalizar(texto), nil
}

// FechaMensaje renders a YYYY-MM-DD date in the short uppercase message
// form used on transmittal memos, e.g. "2 Ene. 2025".
func FechaMensaje(fecha string) (string, error) {
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return "", fmt.Errorf("la fecha debe estar en formato YYYY-MM-DD: %w", err)
	}
	return fmt.Sprintf("%d %s %d", t.Day(), mesesAbreviados[t.Month()], t.Year()), nil
}

// FechaCorta renders an ISO timestamp or date as dd/mm/yyyy for tabular
// outputs. The time portion of CFDI timestamps is ignored.
func FechaCorta(fechaISO string) (string, error) {
	dia := fechaISO
	if len(dia) > 10 {
		dia = dia[:10]
	}
	t, err := time.Parse("2006-01-02", dia)
	if err != nil {
		return "", fmt.Errorf("fecha no reconocida %q: %w", fechaISO, err)
	}
	return t.Format("02/01/2006"), nil
}

func Capitalizar(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
