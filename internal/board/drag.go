package board

// DragResult is what a completed drag gesture reports. Destination is nil
// when the gesture ended outside any column.
type DragResult struct {
	Source      Location
	Destination *Location
}

// HandleDragEnd applies a completed drag. A cancelled drag is a no-op.
func (b *Board) HandleDragEnd(r DragResult) bool {
	if r.Destination == nil {
		return false
	}
	return b.MoveIssue(r.Source.Column, r.Source.Index, r.Destination.Column, r.Destination.Index)
}
