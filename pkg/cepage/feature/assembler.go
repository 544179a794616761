package feature

// Assemble concatenates the transform outputs into one feature row in
// the order the classifiers were fitted on: text, variety, numeric.
// No validation happens here; a row of the wrong total width is caught
// by the classifiers.
func Assemble(text, variety, numeric []float64) []float64 {
	row := make([]float64, 0, len(text)+len(variety)+len(numeric))
	row = append(row, text...)
	row = append(row, variety...)
	row = append(row, numeric...)
	return row
}
