package tricipher

// =============================================================================
// Key Layout
// =============================================================================

const (
	// Modulus is the size of the working alphabet and the Hill modulus.
	Modulus = 26

	// SubstitutionSize is the number of master key entries holding the substitution table.
	SubstitutionSize = 26

	// MatrixSize is the number of master key entries holding the 2x2 Hill matrix.
	MatrixSize = 4

	// HeaderSize is the offset of the transposition key inside the master key.
	HeaderSize = SubstitutionSize + MatrixSize

	// MinKeyLength is the shortest master key accepted.
	MinKeyLength = HeaderSize

	// BlockSize is the Hill block size. Messages are padded to a multiple of it.
	BlockSize = 2
)

// =============================================================================
// Sub-key Types
// =============================================================================

// Matrix is a 2x2 integer matrix [[A, B], [C, D]].
type Matrix struct {
	A, B, C, D int
}

// SubstitutionTable maps digit d (1..26) to the value stored at index d-1.
type SubstitutionTable [SubstitutionSize]int

// InverseTable maps a substitution image v (1..26) back to its digit at index v.
// A zero entry means the image does not occur in the table.
type InverseTable [Modulus + 1]int

// =============================================================================
// Pipeline Types
// =============================================================================

// Trace records the integer sequence produced by each stage of a pipeline run.
// For encoding the stages are Digits, Substituted, Product, Transposed.
// For decoding they are Digits, Transposed (restored order), Product (inverse
// Hill), Substituted (inverse substitution).
type Trace struct {
	Input       string `json:"input"`
	Normalized  string `json:"normalized"`
	Digits      []int  `json:"digits"`
	Substituted []int  `json:"substituted"`
	Product     []int  `json:"product"`
	Transposed  []int  `json:"transposed"`
	Output      string `json:"output"`
}
