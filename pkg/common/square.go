package common

// Squares are numbered in board-text order: a8=0, b8=1, ..., h8=7, a7=8, ..., h1=63.
// The evaluation engine indexes its feature planes the same way.
const SquareCount = 64

const SquareNone = -1

const (
	SquareA8 = iota
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8
)

const (
	SquareA1 = 56 + iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
)

const (
	fileNames = "abcdefgh"
	rankNames = "87654321"
)

func File(sq int) int {
	return sq & 7
}

// Row is the index of the rank counted from the top of the board (rank 8 is row 0).
func Row(sq int) int {
	return sq >> 3
}

func MakeSquare(file, row int) int {
	return (row << 3) | file
}

func SquareName(sq int) string {
	if sq < 0 || sq >= SquareCount {
		return "-"
	}
	return string(fileNames[File(sq)]) + string(rankNames[Row(sq)])
}
