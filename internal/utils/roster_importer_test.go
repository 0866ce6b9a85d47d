package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRosterSkipsHeader(t *testing.T) {
	electionID := primitive.NewObjectID()
	csv := `studentNo,fullName,department,phone,email
20210101,Deniz Kaya,Computer Engineering,+905550000001,deniz@ktu.edu.tr
20210102,Ece Demir,Electrical Engineering,+905550000002,ece@ktu.edu.tr
`
	voters, result, err := ParseRoster(strings.NewReader(csv), electionID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	require.Len(t, voters, 2)
	assert.Equal(t, "20210101", voters[0].StudentNo)
	assert.Equal(t, "Deniz Kaya", voters[0].FullName)
	assert.Equal(t, "deniz@ktu.edu.tr", voters[0].Email)
	assert.Equal(t, electionID, voters[0].ElectionID)
	assert.False(t, voters[0].HasVoted)
}

func TestParseRosterWithoutHeader(t *testing.T) {
	csv := "20210101,Deniz Kaya,Computer Engineering,+905550000001,deniz@ktu.edu.tr\n"

	voters, result, err := ParseRoster(strings.NewReader(csv), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, voters, 1)
}

func TestParseRosterNormalizesIdentity(t *testing.T) {
	csv := " 20210101 ,Deniz Kaya,Computer Engineering,+905550000001,DENIZ@KTU.edu.tr\n"

	voters, _, err := ParseRoster(strings.NewReader(csv), primitive.NewObjectID())
	require.NoError(t, err)
	require.Len(t, voters, 1)
	assert.Equal(t, "20210101", voters[0].StudentNo)
	assert.Equal(t, "deniz@ktu.edu.tr", voters[0].Email)
}

func TestParseRosterReportsBadRows(t *testing.T) {
	csv := `studentNo,fullName,department,phone,email
20210101,Deniz Kaya,Computer Engineering,+905550000001,deniz@ktu.edu.tr
20210102,Ece Demir,Electrical Engineering
,Missing Number,Dept,+905550000003,missing@ktu.edu.tr
20210104,Bad Email,Dept,+905550000004,not-an-email
20210101,Duplicate Row,Dept,+905550000005,dup@ktu.edu.tr
20210105,Fine Row,Dept,+905550000006,fine@ktu.edu.tr
`
	voters, result, err := ParseRoster(strings.NewReader(csv), primitive.NewObjectID())
	require.NoError(t, err)

	// Bad rows are reported and skipped; good rows still import.
	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Len(t, result.Errors, 4)
	require.Len(t, voters, 2)
	assert.Equal(t, "20210101", voters[0].StudentNo)
	assert.Equal(t, "20210105", voters[1].StudentNo)
}

func TestParseRosterEmptyInput(t *testing.T) {
	voters, result, err := ParseRoster(strings.NewReader(""), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, voters)
	assert.Equal(t, 0, result.TotalRows)
	assert.Equal(t, 0, result.Imported)
}

func TestParseRosterHeaderOnly(t *testing.T) {
	voters, result, err := ParseRoster(strings.NewReader("studentNo,fullName,department,phone,email\n"), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, voters)
	assert.Equal(t, 0, result.TotalRows)
}
