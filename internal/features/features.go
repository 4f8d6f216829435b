package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChizhovVadim/nnuedata/pkg/common"
)

var (
	ErrMalformedBoard          = errors.New("malformed board")
	ErrUnrecognizedBoardSymbol = fmt.Errorf("%w: unrecognized symbol", ErrMalformedBoard)
	ErrBadSquareCount          = fmt.Errorf("%w: board must have 64 squares", ErrMalformedBoard)
)

// Input is the sparse form of a 768 feature vector: the indices that are set to 1.
// Indices are stored in board traversal order.
type Input struct {
	indices []int16
}

// Encode converts the piece placement field of a board text into network input.
// Fields after the first space (side to move, castling, etc.) are ignored.
// Every rank must hold exactly 8 squares.
func Encode(board string) (Input, error) {
	var placement = strings.TrimSpace(board)
	if i := strings.IndexAny(placement, " \t"); i >= 0 {
		placement = placement[:i]
	}

	var buffer [common.SquareCount]int16
	var size int
	var sq, file int
	for i := 0; i < len(placement); i++ {
		var ch = placement[i]
		if ch == '/' {
			if file != 8 {
				return Input{}, fmt.Errorf("%w: rank %v has %v squares in %q", ErrBadSquareCount, common.Row(sq-1)+1, file, placement)
			}
			file = 0
			continue
		}
		if ch >= '1' && ch <= '8' {
			file += int(ch - '0')
			sq += int(ch - '0')
			if file > 8 || sq > common.SquareCount {
				return Input{}, fmt.Errorf("%w: %q", ErrBadSquareCount, placement)
			}
			continue
		}
		var plane = common.PlaneBySymbol(ch)
		if plane == common.PieceNone {
			return Input{}, fmt.Errorf("%w %q in %q", ErrUnrecognizedBoardSymbol, ch, placement)
		}
		if file >= 8 || sq >= common.SquareCount {
			return Input{}, fmt.Errorf("%w: %q", ErrBadSquareCount, placement)
		}
		buffer[size] = calculateNetInputIndex(plane, sq)
		size++
		file++
		sq++
	}
	if sq != common.SquareCount || file != 8 {
		return Input{}, fmt.Errorf("%w: %q", ErrBadSquareCount, placement)
	}

	var indices = make([]int16, size)
	copy(indices, buffer[:size])
	return Input{indices: indices}, nil
}

func calculateNetInputIndex(plane, square int) int16 {
	return int16(plane<<6 | square)
}

// Len returns the number of occupied squares.
func (in Input) Len() int { return len(in.indices) }

// Index returns the i-th active feature index.
func (in Input) Index(i int) int { return int(in.indices[i]) }

// Indices returns a copy of the active feature indices.
func (in Input) Indices() []int {
	var result = make([]int, len(in.indices))
	for i, index := range in.indices {
		result[i] = int(index)
	}
	return result
}

// Dense expands the input into the full 768 vector.
func (in Input) Dense() []float32 {
	var result = make([]float32, common.InputSize)
	for _, index := range in.indices {
		result[index] = 1
	}
	return result
}

// Placement renders the input back into board text (piece placement field only).
func (in Input) Placement() string {
	var board [common.SquareCount]int
	for i := range board {
		board[i] = common.PieceNone
	}
	for _, index := range in.indices {
		board[index&63] = int(index >> 6)
	}

	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		var empty = 0
		for file := 0; file < 8; file++ {
			var plane = board[common.MakeSquare(file, row)]
			if plane == common.PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(common.PlaneSymbol(plane))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// WhiteToMove reads the side-to-move field of a board text. A missing field means white.
func WhiteToMove(board string) bool {
	var fields = strings.Fields(board)
	return len(fields) < 2 || fields[1] != "b"
}
