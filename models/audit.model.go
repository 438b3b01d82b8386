package models

import (
	"gorm.io/gorm"
)

// CommitAction is the mutation a confirmed flow issued.
type CommitAction string

const (
	ActionCreate CommitAction = "CREATE"
	ActionUpdate CommitAction = "UPDATE"
	ActionDelete CommitAction = "DELETE"
	ActionPay    CommitAction = "PAY"
)

type CommitOutcome string

const (
	OutcomeSuccess CommitOutcome = "SUCCESS"
	OutcomeFailed  CommitOutcome = "FAILED"
)

// CommitAudit records every confirmed mutation and how it ended.
type CommitAudit struct {
	gorm.Model
	SessionID     string        `gorm:"type:varchar(64);index" json:"sessionId"`
	Admin         string        `gorm:"type:varchar(100)" json:"admin"`
	Branch        string        `gorm:"type:varchar(100)" json:"branch"`
	Kind          string        `gorm:"type:varchar(20);not null" json:"kind"`
	Action        CommitAction  `gorm:"type:varchar(20);not null" json:"action"`
	OwnerID       string        `gorm:"type:varchar(64);index" json:"ownerId"`
	AccountNumber string        `gorm:"type:varchar(64)" json:"accountNumber"`
	Outcome       CommitOutcome `gorm:"type:varchar(20);not null" json:"outcome"`
	Message       string        `gorm:"type:text" json:"message"`
}

func (CommitAudit) TableName() string {
	return "commit_audits"
}
