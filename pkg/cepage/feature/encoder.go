package feature

// Encoding is the tagged outcome of encoding a variety label. An
// unknown variety is not an error: it yields the zero vector with
// Known unset, so callers can surface the distinction.
type Encoding struct {
	Vector []float64
	Known  bool
}

// Encoder one-hot encodes a grape variety over the category set seen
// at training time. Category order is fixed by the fitted artifact.
type Encoder struct {
	categories []string
	index      map[string]int
}

// NewEncoder creates an encoder from the fitted, ordered category list.
func NewEncoder(categories []string) *Encoder {
	cats := make([]string, len(categories))
	copy(cats, categories)
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}
	return &Encoder{categories: cats, index: index}
}

// Width returns the fixed output length.
func (e *Encoder) Width() int {
	return len(e.categories)
}

// Categories returns the fitted category list in training order.
func (e *Encoder) Categories() []string {
	out := make([]string, len(e.categories))
	copy(out, e.categories)
	return out
}

// Encode returns the one-hot row for category. Categories never seen
// during training produce the all-zero row — no category signal rather
// than a failure.
func (e *Encoder) Encode(category string) Encoding {
	vec := make([]float64, len(e.categories))
	idx, ok := e.index[category]
	if !ok {
		return Encoding{Vector: vec, Known: false}
	}
	vec[idx] = 1.0
	return Encoding{Vector: vec, Known: true}
}
