package redis

import (
	"fmt"

	"github.com/projalloc/projalloc/internal/model"
)

// Key prefix for all allocation data
const keyPrefix = "projalloc"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usersIndexKey returns the Redis key for the SET of all user ids
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// accountKey returns the Redis key for an Account
func accountKey(userID model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// projectKey returns the Redis key for a Project
func projectKey(id model.ProjectID) string {
	return fmt.Sprintf("%s:project:%s", keyPrefix, id)
}

// projectsIndexKey returns the Redis key for the SET of all project ids
func projectsIndexKey() string {
	return fmt.Sprintf("%s:idx:projects", keyPrefix)
}

// projectsByOwnerIndexKey returns the Redis key for the SET of project
// ids owned by a staff member
func projectsByOwnerIndexKey(ownerID model.UserID) string {
	return fmt.Sprintf("%s:idx:projects_by_owner:%s", keyPrefix, ownerID)
}

// registrationKey returns the Redis key for a Registration
func registrationKey(id model.RegistrationID) string {
	return fmt.Sprintf("%s:registration:%s", keyPrefix, id)
}

// pairIndexKey returns the Redis key for the (project, student) ->
// registration_id index
func pairIndexKey(projectID model.ProjectID, studentID model.UserID) string {
	return fmt.Sprintf("%s:idx:pair:%s:%s", keyPrefix, projectID, studentID)
}

// registrationsByStudentIndexKey returns the Redis key for the SET of
// registration ids belonging to a student
func registrationsByStudentIndexKey(studentID model.UserID) string {
	return fmt.Sprintf("%s:idx:registrations_by_student:%s", keyPrefix, studentID)
}

// registrationsByProjectIndexKey returns the Redis key for the SET of
// registration ids recorded against a project
func registrationsByProjectIndexKey(projectID model.ProjectID) string {
	return fmt.Sprintf("%s:idx:registrations_by_project:%s", keyPrefix, projectID)
}
