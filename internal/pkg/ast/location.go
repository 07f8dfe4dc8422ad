package ast

import "fmt"

type Location struct {
	FilePath    string
	FileContent []rune
	Start       uint32
	End         uint32
}

func NewLocation(filePath string, content []rune, start uint32, end uint32) Location {
	return Location{
		FilePath:    filePath,
		FileContent: content,
		Start:       start,
		End:         end,
	}
}

func NewLocationCursor(filePath string, content []rune, start uint32) Location {
	return NewLocation(filePath, content, start, start)
}

// GetLocation makes every node embedding a Location satisfy the Located
// interfaces of the syntax package.
func (loc Location) GetLocation() Location {
	return loc
}

func (loc Location) IsEmpty() bool {
	return loc.FilePath == ""
}

func (loc Location) CursorString() string {
	if loc.IsEmpty() {
		return ""
	}
	line, col, _, _ := loc.GetLineAndColumn()
	return fmt.Sprintf("%s:%d:%d", loc.FilePath, line, col)
}

func (loc Location) GetLineAndColumn() (startLine, startColumn, endLine, endColumn int) {
	line := 1
	column := 1

	for i := uint32(0); i < uint32(len(loc.FileContent)); i++ {
		if i == loc.Start {
			startLine = line
			startColumn = column
		}
		if i == loc.End {
			endLine = line
			endColumn = column
		}

		if '\n' == loc.FileContent[i] {
			line++
			column = 1
		} else {
			column++
		}
	}
	if loc.Start == uint32(len(loc.FileContent)) {
		startLine = line
		startColumn = column
	}
	if loc.End == uint32(len(loc.FileContent)) {
		endLine = line
		endColumn = column
	}
	return
}
