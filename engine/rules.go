package engine

// NumSeats is the only supported table size. Seats are numbered 0..7.
const NumSeats = 8

// roleSet is the fixed role multiset for an 8-seat table:
// 5 Good (Merlin, Percival, 3 Servants) and 3 Evil (Morgana, Assassin, Minion).
var roleSet = [NumSeats]Character{
	CharMerlin,
	CharPercival,
	CharServant, CharServant, CharServant,
	CharMorgana,
	CharAssassin,
	CharMinion,
}

// missionTeamSizes maps round number to the required team size.
var missionTeamSizes = map[int]int{1: 3, 2: 4, 3: 4, 4: 5, 5: 5}

// MissionTeamSize returns the team size required for the given round.
// Rounds outside 1..5 fall back to 5; no reachable transition produces them.
func MissionTeamSize(round int) int {
	if n, ok := missionTeamSizes[round]; ok {
		return n
	}
	return 5
}

// IsMissionFailed reports whether a mission with the given number of fail
// submissions is failed. Round 4 requires two fails; every other round one.
func IsMissionFailed(round, failCount int) bool {
	if round == 4 {
		return failCount >= 2
	}
	return failCount >= 1
}
