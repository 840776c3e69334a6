package engine

// Turn tracks the round counter and whose turn it is
type Turn struct {
	round  int
	player *Player
}

// NewTurn returns an inactive turn at round 0
func NewTurn() *Turn {
	return &Turn{}
}

// Change hands the turn to player. The round is not advanced.
func (t *Turn) Change(player Player) {
	t.player = &player
}

// Player returns the active player, or nil before the game starts
func (t *Turn) Player() *Player {
	if t.player == nil {
		return nil
	}
	p := *t.player
	return &p
}

func (t *Turn) Round() int {
	return t.round
}

// restore sets the round counter when rebuilding a persisted game
func (t *Turn) restore(round int) {
	if round >= 0 {
		t.round = round
	}
}
