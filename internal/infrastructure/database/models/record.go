package models

import "time"

type Record struct {
	Repo       string    `json:"repo" gorm:"column:repo;primaryKey;type:text"`
	Collection string    `json:"collection" gorm:"column:collection;primaryKey;type:text"`
	Rkey       string    `json:"rkey" gorm:"column:rkey;primaryKey;type:text"`
	URI        string    `json:"uri" gorm:"column:uri;uniqueIndex;type:text"`
	CID        string    `json:"cid" gorm:"column:cid;type:text"`
	Value      string    `json:"value" gorm:"column:value;type:jsonb"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate      time.Time `json:"mdate" gorm:"autoUpdateTime"`
}
