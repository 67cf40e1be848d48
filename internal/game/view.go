package game

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jim-kask/project-xeri/internal/card"
)

// SeatView is one seat as a given viewer sees it. Other players' hands are
// redacted to a count; only the viewer's own Hand is populated.
type SeatView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Ready bool        `json:"ready"`
	Score int         `json:"score"`
	Cards int         `json:"cards"`
	Hand  []card.Card `json:"hand,omitempty"`
}

// TableView is the per-player projection pushed after every successful
// mutation. Hands differ per viewer, so there is never a single shared
// game-state payload.
type TableView struct {
	Room      string      `json:"room"`
	Name      string      `json:"name"`
	Game      Kind        `json:"game"`
	You       string      `json:"you"`
	Players   []SeatView  `json:"players"`
	Pile      []card.Card `json:"pile,omitempty"`
	Center    []card.Card `json:"center,omitempty"`
	DeckCount int         `json:"deck_count"`
	Started   bool        `json:"started"`
	Turn      string      `json:"turn,omitempty"`
	Winner    string      `json:"winner,omitempty"`
}

// LobbyView carries no hidden information and is broadcast identically to
// the whole room.
type LobbyView struct {
	Room    string   `json:"room"`
	Name    string   `json:"name"`
	Game    Kind     `json:"game"`
	Players []string `json:"players"`
	Ready   []string `json:"ready"`
	Started bool     `json:"started"`
	Locked  bool     `json:"locked"`
}

// Summary is the lightweight table listing for lobbies.
type Summary struct {
	Room    string `json:"room"`
	Name    string `json:"name"`
	Game    Kind   `json:"game"`
	Seats   int    `json:"seats"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
	Locked  bool   `json:"locked"`
}

// viewLocked builds the projection for one viewer. Caller holds t.mu.
func (t *Table) viewLocked(viewer uuid.UUID) TableView {
	v := TableView{
		Room:    t.ID,
		Name:    t.Name,
		Game:    t.Game,
		You:     viewer.String(),
		Started: t.Started,
	}
	if t.Deck != nil {
		v.DeckCount = t.Deck.Len()
	}
	if len(t.Pile) > 0 {
		v.Pile = append([]card.Card(nil), t.Pile...)
	}
	if len(t.Center) > 0 {
		v.Center = append([]card.Card(nil), t.Center...)
	}
	if t.Started && t.Game == KindXeri && len(t.Players) > 0 {
		v.Turn = t.Players[t.TurnIdx].ID.String()
	}
	if t.Winner != uuid.Nil {
		v.Winner = t.Winner.String()
	}

	for _, p := range t.Players {
		sv := SeatView{
			ID:    p.ID.String(),
			Name:  p.Name,
			Ready: p.Ready,
			Score: p.Score,
			Cards: len(p.Hand),
		}
		if p.ID == viewer {
			sv.Hand = append([]card.Card(nil), p.Hand...)
			if t.Game == KindStress {
				sortHand(sv.Hand)
			}
		}
		v.Players = append(v.Players, sv)
	}
	return v
}

// sortHand orders a Stress hand by rank then suit for display.
func sortHand(hand []card.Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Rank != hand[j].Rank {
			return hand[i].Rank < hand[j].Rank
		}
		return hand[i].Suit < hand[j].Suit
	})
}

// lobbyLocked builds the room-wide lobby payload. Caller holds t.mu.
func (t *Table) lobbyLocked() LobbyView {
	v := LobbyView{
		Room:    t.ID,
		Name:    t.Name,
		Game:    t.Game,
		Players: make([]string, 0, len(t.Players)),
		Ready:   []string{},
		Started: t.Started,
		Locked:  t.Password != "",
	}
	for _, p := range t.Players {
		v.Players = append(v.Players, p.Name)
		if p.Ready {
			v.Ready = append(v.Ready, p.Name)
		}
	}
	return v
}

// Project computes the lobby payload plus one redacted game view per seated
// player, atomically under the room lock.
func (r *Registry) Project(kind Kind, room string) (LobbyView, map[uuid.UUID]TableView, bool) {
	t, ok := r.lookup(kind, room)
	if !ok {
		return LobbyView{}, nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	views := make(map[uuid.UUID]TableView, len(t.Players))
	for _, p := range t.Players {
		views[p.ID] = t.viewLocked(p.ID)
	}
	return t.lobbyLocked(), views, true
}

// Summaries lists every live table for a game kind.
func (r *Registry) Summaries(kind Kind) []Summary {
	r.mu.RLock()
	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	out := make([]Summary, 0, len(tables))
	for _, t := range tables {
		t.mu.Lock()
		if t.Game == kind {
			out = append(out, Summary{
				Room:    t.ID,
				Name:    t.Name,
				Game:    t.Game,
				Seats:   RulesFor(t.Game).MaxPlayers(),
				Players: len(t.Players),
				Started: t.Started,
				Locked:  t.Password != "",
			})
		}
		t.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}
