package chips

// ChipView hides the bomb flag of an unrevealed chip unless the viewer is
// the one placing bombs on that board.
type ChipView struct {
	IsBomb     bool `json:"isBomb"`
	IsRevealed bool `json:"isRevealed"`
}

type BoardView struct {
	Owner   Seat                `json:"owner"`
	Enabled bool                `json:"enabled"`
	Chips   [BoardSize]ChipView `json:"chips"`
}

type SetupView struct {
	Step     SetupStep `json:"step"`
	Placer   Seat      `json:"placer,omitempty"`
	Board    BoardView `json:"board"`
	Selected int       `json:"selected"`
	CanReady bool      `json:"canReady"`
}

type GameplayView struct {
	Turn   Seat         `json:"turn"`
	Lives  map[Seat]int `json:"lives"`
	Boards []BoardView  `json:"boards"`
}

type GameOverView struct {
	Winner Seat         `json:"winner"`
	Lives  map[Seat]int `json:"lives"`
	Boards Boards       `json:"boards"`
}

// View is a read-only snapshot for renderers. At most one phase section is
// set; INTRO has none.
type View struct {
	Phase    Phase         `json:"phase"`
	Setup    *SetupView    `json:"setup,omitempty"`
	Gameplay *GameplayView `json:"gameplay,omitempty"`
	GameOver *GameOverView `json:"gameOver,omitempty"`
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := &f.st
	v := View{Phase: st.phase}
	switch st.phase {
	case PhaseSetup:
		sv := &SetupView{Step: st.step}
		if owner, ok := st.placingFor(); ok {
			set := st.pending[owner]
			sv.Placer = owner.Opponent()
			sv.Board = BoardView{Owner: owner, Enabled: true}
			for i := range sv.Board.Chips {
				sv.Board.Chips[i].IsBomb = set[i]
			}
			sv.Selected = len(set)
			sv.CanReady = len(set) == BombsPerBoard
		}
		v.Setup = sv
	case PhaseGameplay:
		gv := &GameplayView{Turn: st.turn, Lives: copyLives(st.lives)}
		for _, owner := range []Seat{Player1, Player2} {
			b := st.boards.Of(owner)
			bv := BoardView{Owner: owner, Enabled: owner == st.turn.Opponent()}
			for i, c := range b {
				bv.Chips[i] = ChipView{IsRevealed: c.IsRevealed, IsBomb: c.IsRevealed && c.IsBomb}
			}
			gv.Boards = append(gv.Boards, bv)
		}
		v.Gameplay = gv
	case PhaseGameOver:
		g := st.gameOver()
		v.GameOver = &g
	}
	return v
}

func (st *state) gameOver() GameOverView {
	return GameOverView{Winner: st.winner, Lives: copyLives(st.lives), Boards: st.boards}
}

func copyLives(m map[Seat]int) map[Seat]int {
	out := make(map[Seat]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
