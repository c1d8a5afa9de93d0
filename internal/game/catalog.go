package game

type Role string

// Catalog order is rank order, highest first.
const (
	RoleSovereign Role = "Sovereign"
	RoleConsort   Role = "Consort"
	RoleMinister  Role = "Minister"
	RoleGuard1    Role = "Guard1"
	RoleGuard2    Role = "Guard2"
	RoleOutlaw    Role = "Outlaw"
)

var Points = map[Role]int{
	RoleSovereign: 1000,
	RoleConsort:   800,
	RoleMinister:  700,
	RoleGuard1:    500,
	RoleGuard2:    500,
	RoleOutlaw:    0,
}

// TopRole opens every round and is revealed from the start.
const TopRole = RoleSovereign

// BottomRole is never credited at round end.
const BottomRole = RoleOutlaw

type Stage string

const (
	StageWaiting   Stage = "WAITING"
	StageSovereign Stage = "SOVEREIGN_TURN"
	StageConsort   Stage = "CONSORT_TURN"
	StageMinister  Stage = "MINISTER_TURN"
	StageGuard1    Stage = "GUARD1_TURN"
	StageGuard2    Stage = "GUARD2_TURN"
	StageEnd       Stage = "END"
)

// stageSeeker is the role whose holder is guessing during a stage.
var stageSeeker = map[Stage]Role{
	StageSovereign: RoleSovereign,
	StageConsort:   RoleConsort,
	StageMinister:  RoleMinister,
	StageGuard1:    RoleGuard1,
	StageGuard2:    RoleGuard2,
}

var rolesBySize = map[int][]Role{
	4: {RoleSovereign, RoleConsort, RoleGuard1, RoleOutlaw},
	5: {RoleSovereign, RoleConsort, RoleMinister, RoleGuard1, RoleOutlaw},
	6: {RoleSovereign, RoleConsort, RoleMinister, RoleGuard1, RoleGuard2, RoleOutlaw},
}

var stagesBySize = map[int][]Stage{
	4: {StageSovereign, StageConsort, StageGuard1},
	5: {StageSovereign, StageConsort, StageMinister, StageGuard1},
	6: {StageSovereign, StageConsort, StageMinister, StageGuard1, StageGuard2},
}

var targetsBySize = map[int]map[Stage]Role{
	4: {
		StageSovereign: RoleConsort,
		StageConsort:   RoleGuard1,
		StageGuard1:    RoleOutlaw,
	},
	5: {
		StageSovereign: RoleConsort,
		StageConsort:   RoleMinister,
		StageMinister:  RoleGuard1,
		StageGuard1:    RoleOutlaw,
	},
	6: {
		StageSovereign: RoleConsort,
		StageConsort:   RoleMinister,
		StageMinister:  RoleGuard1,
		StageGuard1:    RoleGuard2,
		StageGuard2:    RoleOutlaw,
	},
}

// RolesFor returns the roles dealt for a room of n players, highest rank
// first, or nil when n is outside [MinPlayers, MaxPlayers].
func RolesFor(n int) []Role {
	roles, ok := rolesBySize[n]
	if !ok {
		return nil
	}
	return append([]Role(nil), roles...)
}

// StagesFor returns the stage sequence for a room of n players.
func StagesFor(n int) []Stage {
	stages, ok := stagesBySize[n]
	if !ok {
		return nil
	}
	return append([]Stage(nil), stages...)
}

// TargetRoleFor returns the role the seeker must find during stage in a
// round dealt for n players.
func TargetRoleFor(stage Stage, n int) (Role, bool) {
	role, ok := targetsBySize[n][stage]
	return role, ok
}

// SeekerRole returns the role whose holder guesses during stage.
func SeekerRole(stage Stage) (Role, bool) {
	role, ok := stageSeeker[stage]
	return role, ok
}

func (r Role) Points() int { return Points[r] }
