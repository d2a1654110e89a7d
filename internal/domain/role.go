package domain

type Role string

const (
	RolePlayer    Role = "player"
	RoleEnemy     Role = "enemy"
	RoleSpectator Role = "spectator"
)

var roleTable = [...]Role{
	RolePlayer,
	RoleEnemy,
	"bot1", "bot2", "bot3", "bot4", "bot5", "bot6",
}

// RoleFor maps a zero-based join position to its role label.
func RoleFor(index int) Role {
	if index < 0 || index >= len(roleTable) {
		return RoleSpectator
	}
	return roleTable[index]
}
