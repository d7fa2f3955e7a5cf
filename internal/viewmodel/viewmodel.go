package viewmodel

// Tile is one rendered cell of the board.
type Tile struct {
	Class string
}

// Board holds data for the board fragment.
type Board struct {
	GameID string
	Status string
	Width  int
	Height int
	Rows   [][]Tile
}

// PieceCount is a spawn count for the statistics list.
type PieceCount struct {
	Name  string
	Count int
}

// ScorePanel holds data for the score and statistics panel.
type ScorePanel struct {
	GameID      string
	Score       int
	Level       int
	Lines       int
	Best        int
	GamesPlayed int
	DropMs      int64
	Pieces      []PieceCount
}

// StatusBar holds data for the status line and owner controls.
type StatusBar struct {
	GameID  string
	Status  string
	IsOwner bool
}

// GamePage holds data for the main game page template.
type GamePage struct {
	Title     string
	GameID    string
	InviteURL string
	IsOwner   bool
	Status    StatusBar
	Board     Board
	Scores    ScorePanel
}

// Point is a board coordinate in JSON payloads.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PieceState is the active piece in JSON payloads.
type PieceState struct {
	Type  string  `json:"type"`
	Pos   Point   `json:"pos"`
	Cells [][]int `json:"cells"`
	Ghost Point   `json:"ghost"`
}

// GameState is the JSON view of a game served to scripts and bots.
type GameState struct {
	ID             string      `json:"id"`
	Status         string      `json:"status"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	Grid           [][]int     `json:"grid"`
	Piece          *PieceState `json:"piece,omitempty"`
	Flashing       []int       `json:"flashing"`
	FlashVisible   bool        `json:"flashVisible"`
	Score          int         `json:"score"`
	Level          int         `json:"level"`
	Lines          int         `json:"lines"`
	Best           int         `json:"best"`
	DropIntervalMs int64       `json:"dropIntervalMs"`
	ClockMs        int64       `json:"clockMs"`
}
