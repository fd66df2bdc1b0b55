package game

// ProgressEvent is something that happened in play that quests may count.
type ProgressEvent interface {
	objective() (ObjectiveType, string, int)
}

type ItemCollected struct {
	ItemID   string
	Quantity int
}

type EnemyDefeated struct {
	CreatureID string
}

type LocationVisited struct {
	RegionID string
}

type ItemFound struct {
	ItemID string
}

type ForgerToolUsed struct {
	ToolID string
}

type ObjectInteracted struct {
	ObjectID string
}

func (e ItemCollected) objective() (ObjectiveType, string, int) {
	return ObjectiveGatherItem, e.ItemID, e.Quantity
}

func (e EnemyDefeated) objective() (ObjectiveType, string, int) {
	return ObjectiveDefeatEnemy, e.CreatureID, 1
}

func (e LocationVisited) objective() (ObjectiveType, string, int) {
	return ObjectiveVisitLocation, e.RegionID, 1
}

func (e ItemFound) objective() (ObjectiveType, string, int) {
	return ObjectiveFindItem, e.ItemID, 1
}

func (e ForgerToolUsed) objective() (ObjectiveType, string, int) {
	return ObjectiveUseForgerTool, e.ToolID, 1
}

func (e ObjectInteracted) objective() (ObjectiveType, string, int) {
	return ObjectiveInteractWithItem, e.ObjectID, 1
}

// ProgressFor returns how much progress ev contributes to o. An objective
// without a target matches any event of its type.
func ProgressFor(o Objective, ev ProgressEvent) (int, bool) {
	typ, target, amount := ev.objective()
	if o.Type != typ {
		return 0, false
	}
	if o.Target != "" && o.Target != target {
		return 0, false
	}
	return amount, amount > 0
}

// ProgressTracker receives progress events from other subsystems.
type ProgressTracker interface {
	Track(ProgressEvent)
}
