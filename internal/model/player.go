package model

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Player struct {
	ID   string
	Side Side
	Conn Conn
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Side  Side        `json:"color"`
	Bot   string      `json:"bot,omitempty"`
	Clock ClientClock `json:"clock"`
}
