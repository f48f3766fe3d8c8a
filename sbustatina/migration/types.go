package migration

// Legacy document shapes, as stored by the first generation of the bot in a
// document database. Field names follow the old documents, not our schema.

type LegacySet struct {
	ID            string `bson:"_id"`
	FullName      string `bson:"fullName"`
	NumberOfCards int    `bson:"numberOfCards"`
}

type LegacyCard struct {
	ID     string  `bson:"_id"`
	Set    string  `bson:"set"`
	Number int     `bson:"id"`
	Name   string  `bson:"name"`
	Weight float64 `bson:"weight"`
	Image  string  `bson:"image"`
}

type LegacyUser struct {
	ID        string `bson:"_id"`
	Username  string `bson:"username,omitempty"`
	FirstName string `bson:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty"`
}

type LegacyCollectionEntry struct {
	UserID string `bson:"user"`
	CardID string `bson:"card"`
	Count  int64  `bson:"count"`
}
