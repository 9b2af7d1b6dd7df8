package spy

// View is a read-only snapshot for renderers. Exactly one of the phase
// sections is set.
type View struct {
	Phase    Phase         `json:"phase"`
	Setup    *SetupView    `json:"setup,omitempty"`
	Reveal   *RevealView   `json:"reveal,omitempty"`
	Play     *PlayView     `json:"play,omitempty"`
	GameOver *GameOverView `json:"gameOver,omitempty"`
}

type SetupView struct {
	Names     []string `json:"names"`
	Loading   bool     `json:"loading"`
	Error     string   `json:"error,omitempty"`
	CanRemove bool     `json:"canRemove"`
}

// RevealView shows role data only during the role step. During hand-off
// PlayerName is the next player to take the device.
type RevealView struct {
	Index      int        `json:"index"`
	Total      int        `json:"total"`
	Step       RevealStep `json:"step"`
	PlayerName string     `json:"playerName"`
	IsSpy      bool       `json:"isSpy,omitempty"`
	Word       string     `json:"word,omitempty"`
	Category   string     `json:"category,omitempty"`
}

type Seat struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IsEliminated bool   `json:"isEliminated"`
}

type PlayView struct {
	Players        []Seat `json:"players"`
	LastEliminated *Seat  `json:"lastEliminated,omitempty"`
}

type GameOverView struct {
	SpyWasFound bool     `json:"spyWasFound"`
	SpyName     string   `json:"spyName"`
	SecretWord  string   `json:"secretWord"`
	Category    string   `json:"category"`
	Players     []Player `json:"players"`

	// LastEliminated is set when the round ended by voting out the spy.
	LastEliminated *Seat `json:"lastEliminated,omitempty"`
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := &f.st
	v := View{Phase: st.phase}
	switch st.phase {
	case PhaseSetup:
		v.Setup = &SetupView{
			Names:     append([]string(nil), st.draft...),
			Loading:   st.loading,
			Error:     st.errMsg,
			CanRemove: len(st.draft) > MinPlayers,
		}
	case PhaseReveal:
		r := &RevealView{Index: st.revealIx, Total: len(st.players), Step: st.step}
		p := st.players[st.revealIx]
		r.PlayerName = p.Name
		switch st.step {
		case StepRole:
			r.IsSpy = p.IsSpy
			if !p.IsSpy {
				r.Word = st.word
				r.Category = st.category
			}
		case StepHandoff:
			r.PlayerName = st.players[st.revealIx+1].Name
		}
		v.Reveal = r
	case PhasePlay:
		pv := &PlayView{Players: make([]Seat, len(st.players))}
		for i, p := range st.players {
			pv.Players[i] = Seat{ID: p.ID, Name: p.Name, IsEliminated: p.IsEliminated}
			if p.ID == st.lastEliminated {
				s := pv.Players[i]
				pv.LastEliminated = &s
			}
		}
		v.Play = pv
	case PhaseGameOver:
		g := st.gameOver()
		v.GameOver = &g
	}
	return v
}

func (st *state) gameOver() GameOverView {
	var spy Player
	for _, p := range st.players {
		if p.IsSpy {
			spy = p
		}
	}
	g := GameOverView{
		SpyWasFound: spy.IsEliminated,
		SpyName:     spy.Name,
		SecretWord:  st.word,
		Category:    st.category,
		Players:     append([]Player(nil), st.players...),
	}
	for _, p := range st.players {
		if p.ID == st.lastEliminated {
			g.LastEliminated = &Seat{ID: p.ID, Name: p.Name, IsEliminated: p.IsEliminated}
		}
	}
	return g
}
