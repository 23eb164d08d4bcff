// Package jsondb provides a JSON-file-backed implementation of the storage
// interface. The whole dataset is held in memory and flushed to disk on Close.
package jsondb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

// JSONDB is a file-backed storage keeping users and submissions in an
// in-memory cache persisted as an indented JSON document.
type JSONDB struct {
	fileName string
	mutex    sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct is the serialized shape of the database file.
type CacheStruct struct {
	// Users maps user ID to the user record.
	Users map[string]*user.User

	// EmailToUserID maps user email to user ID.
	EmailToUserID map[string]string

	// Submissions holds every submission in insertion order.
	Submissions []models.Submission
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": {},
	"EmailToUserID": {},
	"Submissions": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

// New opens the database file, creating and initializing it when missing.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(db.fileName, &db.Cache)
		if err != nil {
			return nil, err
		}
	}

	if db.Cache.Users == nil {
		db.Cache.Users = map[string]*user.User{}
	}
	if db.Cache.EmailToUserID == nil {
		db.Cache.EmailToUserID = map[string]string{}
	}

	return &db, nil
}

// BeginTransaction is a no-op: the file backend has no transactions.
func (db *JSONDB) BeginTransaction() (*sql.Tx, error) {
	return nil, nil
}

// RollbackTransaction is a no-op: the file backend has no transactions.
func (db *JSONDB) RollbackTransaction(transaction *sql.Tx) error {
	return nil
}

// CommitTransaction is a no-op: the file backend has no transactions.
func (db *JSONDB) CommitTransaction(transaction *sql.Tx) error {
	return nil
}

// CreateUser stores a new user record and returns its generated UUID.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User, transaction *sql.Tx) (string, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	stored := *usr
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	db.Cache.Users[stored.ID] = &stored
	db.Cache.EmailToUserID[stored.Email] = stored.ID

	return stored.ID, nil
}

// FindUserByEmail returns the user registered under email, if any.
func (db *JSONDB) FindUserByEmail(
	ctx context.Context,
	email string,
	transaction *sql.Tx,
) (*user.User, bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	userID, found := db.Cache.EmailToUserID[email]
	if !found {
		return nil, false, nil
	}
	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}

	userCopy := *usr

	return &userCopy, true, nil
}

// FindUserByID returns the user with the given ID, if any.
func (db *JSONDB) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	usr, found := db.Cache.Users[userID]
	if !found {
		return nil, false, nil
	}

	userCopy := *usr

	return &userCopy, true, nil
}

// CreateSubmission appends a submission to the cache.
func (db *JSONDB) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.Cache.Submissions = append(db.Cache.Submissions, *submission)

	return nil
}

// FindSubmissionsByLinkID returns the submissions tied to linkID in
// insertion order.
func (db *JSONDB) FindSubmissionsByLinkID(ctx context.Context, linkID string) ([]models.Submission, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := funk.Filter(
		db.Cache.Submissions,
		func(submission models.Submission) bool {
			return submission.LinkID == linkID
		},
	).([]models.Submission)
	if result == nil {
		result = []models.Submission{}
	}

	return result, nil
}

// GetNumberOfUsers returns the total count of registered users.
func (db *JSONDB) GetNumberOfUsers(ctx context.Context) (int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return int64(len(db.Cache.Users)), nil
}

// GetNumberOfSubmissions returns the total count of stored submissions.
func (db *JSONDB) GetNumberOfSubmissions(ctx context.Context) (int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return int64(len(db.Cache.Submissions)), nil
}

// Ping always succeeds for the file backend.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the database file.
func (db *JSONDB) Close() error {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	err := writeToJSONFile(db.fileName, db.Cache)
	if err != nil {
		return err
	}

	return nil
}
