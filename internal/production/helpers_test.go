package production

import "github.com/comalice/turingx/internal/primitives"

func scanner() primitives.Definition {
	return primitives.NewDefinitionBuilder("scanner", "q0").
		Alphabet("1", "0").
		Blank("B").
		Final("halt").
		Rule("q0", "1", "q0", "1", primitives.Right).
		Rule("q0", "B", "halt", "B", primitives.Stay).
		MustBuild()
}
