package field

// guard suppresses list bookkeeping while spans are moved around internally.
type guard struct {
	depth int
}

// hold enters the guarded region; call the returned func to leave it.
func (g *guard) hold() func() {
	g.depth++
	released := false
	return func() {
		if !released {
			released = true
			g.depth--
		}
	}
}

func (g *guard) held() bool { return g.depth > 0 }
