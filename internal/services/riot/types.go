// Package riot provides types for Riot API responses.
package riot

// MatchSummary holds the participant roster and metadata for one match.
type MatchSummary struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

// MatchInfo represents the info section of a match response.
type MatchInfo struct {
	GameDuration int64         `json:"gameDuration"`
	GameMode     string        `json:"gameMode"`
	Participants []Participant `json:"participants"`
}

// Participant represents a player in a match.
type Participant struct {
	PUUID          string `json:"puuid"`
	ParticipantID  int    `json:"participantId"`
	RiotIDGameName string `json:"riotIdGameName"`
	ChampionName   string `json:"championName"`
	TeamID         int    `json:"teamId"`
	TeamPosition   string `json:"teamPosition"`
	Win            bool   `json:"win"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	ChampLevel     int    `json:"champLevel"`
	GoldEarned     int    `json:"goldEarned"`

	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	VisionScore                 int `json:"visionScore"`
}

// TimelineResponse represents the timeline response from Riot API.
type TimelineResponse struct {
	Info TimelineInfo `json:"info"`
}

// TimelineInfo represents the info section of a timeline response.
type TimelineInfo struct {
	FrameInterval int64           `json:"frameInterval"`
	Frames        []TimelineFrame `json:"frames"`
}

// TimelineFrame represents a frame in the timeline.
type TimelineFrame struct {
	Timestamp         int64                       `json:"timestamp"`
	Events            []TimelineEvent             `json:"events"`
	ParticipantFrames map[string]ParticipantFrame `json:"participantFrames"`
}

// TimelineEvent represents an event in the timeline.
type TimelineEvent struct {
	Type                    string `json:"type"`
	Timestamp               int64  `json:"timestamp"`
	ParticipantID           int    `json:"participantId"`
	CreatorID               int    `json:"creatorId"`
	KillerID                int    `json:"killerId"`
	VictimID                int    `json:"victimId"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds"`
	Bounty                  int    `json:"bounty"`
	ShutdownBounty          int    `json:"shutdownBounty"`
	KillStreakLength        int    `json:"killStreakLength"`
	MultiKillLength         int    `json:"multiKillLength"`
	MonsterType             string `json:"monsterType"`
	MonsterSubType          string `json:"monsterSubType"`
	BuildingType            string `json:"buildingType"`
	TowerType               string `json:"towerType"`
	LaneType                string `json:"laneType"`
	WardType                string `json:"wardType"`
	ItemID                  int    `json:"itemId"`
	TeamID                  int    `json:"teamId"`
	Position                *Point `json:"position,omitempty"`
}

// Point is a map coordinate attached to some events.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ParticipantFrame represents a participant's state at a frame.
type ParticipantFrame struct {
	ParticipantID       int         `json:"participantId"`
	TotalGold           int         `json:"totalGold"`
	CurrentGold         int         `json:"currentGold"`
	XP                  int         `json:"xp"`
	Level               int         `json:"level"`
	MinionsKilled       int         `json:"minionsKilled"`
	JungleMinionsKilled int         `json:"jungleMinionsKilled"`
	Position            Point       `json:"position"`
	DamageStats         DamageStats `json:"damageStats"`
}

// DamageStats is the damage section of a participant frame.
type DamageStats struct {
	TotalDamageDoneToChampions  int `json:"totalDamageDoneToChampions"`
	TotalDamageTaken            int `json:"totalDamageTaken"`
	TrueDamageDoneToChampions   int `json:"trueDamageDoneToChampions"`
	MagicDamageDoneToChampions  int `json:"magicDamageDoneToChampions"`
	PhysicalDamageDoneToChamps  int `json:"physicalDamageDoneToChampions"`
}
