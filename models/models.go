package models

// Record is anything stored in a collection. The id doubles as the Mongo _id.
type Record interface {
	RecordID() string
}
