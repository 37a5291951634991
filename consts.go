package goteco

const (
	esc = '\x1b'
	rub = '\x7f'
	ff  = '\f'
	bel = '\a'
)
