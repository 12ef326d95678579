package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_win", "First Blast", "Win your first match"},
	{"victor", "Victor", "Win 10 matches"},
	{"champion", "Champion", "Win 50 matches"},
	{"untouchable", "Untouchable", "Win a match without losing a life"},
	{"demolitionist", "Demolitionist", "Destroy 100 crates"},
	{"bomb_century", "Bomb Century", "Place 500 bombs"},
	{"collector", "Collector", "Pick up 50 power-ups"},
	{"regular", "Regular", "Play 25 matches"},
	{"veteran", "Veteran", "Reach level 10"},
	{"elite", "Elite", "Reach level 25"},
}

// CheckAchievements checks if any new achievements should be unlocked
// for an account after a match. Returns the newly unlocked ones.
func CheckAchievements(db *DB, playerID int64, won bool, livesLeft int) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_win":
			return stats.Wins >= 1
		case "victor":
			return stats.Wins >= 10
		case "champion":
			return stats.Wins >= 50
		case "untouchable":
			return won && livesLeft == DefaultLives
		case "demolitionist":
			return stats.CratesDestroyed >= 100
		case "bomb_century":
			return stats.BombsPlaced >= 500
		case "collector":
			return stats.PowerupsCollected >= 50
		case "regular":
			return stats.Games >= 25
		case "veteran":
			return stats.Level >= 10
		case "elite":
			return stats.Level >= 25
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}
