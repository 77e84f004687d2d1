// Package inmemdb implements the repositories in memory, for tests and the debug server.
package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-meet/core/meeting"
	"github.com/trezcool/masomo-meet/core/teacher"
)

type (
	DB struct {
		teacher *teacherTable
		meeting *meetingTable
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher // by email
	}

	meetingTable struct {
		sync.RWMutex
		table []meeting.Meeting // by creation
	}
)

func Open() *DB {
	return &DB{
		teacher: &teacherTable{table: make(map[string]*teacher.Teacher)},
		meeting: &meetingTable{},
	}
}
