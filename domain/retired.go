// Package domain holds records shared between the simulation and its stores.
package domain

// RetiredPlayer is the record written when an idle player is retired from a map.
type RetiredPlayer struct {
	ID          uint64  `bson:"playerId" json:"playerId"`
	Name        string  `bson:"name" json:"name"`
	Score       uint64  `bson:"score" json:"score"`
	PlaySeconds float64 `bson:"playTime" json:"playTime"`
}
