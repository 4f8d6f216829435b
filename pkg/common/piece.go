package common

// Piece planes in the order the engine enumerates them:
// white pawn, rook, knight, bishop, queen, king, then the same for black.
const (
	WhitePawn = iota
	WhiteRook
	WhiteKnight
	WhiteBishop
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackRook
	BlackKnight
	BlackBishop
	BlackQueen
	BlackKing
	PieceNone = -1
)

const PlaneCount = 12

// InputSize is the length of a dense feature vector: one plane of 64 squares per piece.
const InputSize = PlaneCount * SquareCount

const pieceSymbols = "PRNBQKprnbqk"

// PlaneBySymbol returns the plane of a board-text piece letter or PieceNone.
func PlaneBySymbol(ch byte) int {
	for i := 0; i < len(pieceSymbols); i++ {
		if pieceSymbols[i] == ch {
			return i
		}
	}
	return PieceNone
}

func PlaneSymbol(plane int) byte {
	if plane < 0 || plane >= PlaneCount {
		return '?'
	}
	return pieceSymbols[plane]
}

// PieceValues are the conventional material values in centipawns, indexed by plane.
var PieceValues = [PlaneCount]int{
	100, 500, 320, 330, 900, 0,
	-100, -500, -320, -330, -900, 0,
}
