package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetFetchCmd_Exists verifies getFetchCmd returns
// a valid command.
func TestGetFetchCmd_Exists(t *testing.T) {
	cmd := getFetchCmd()
	require.NotNil(t, cmd, "Fetch command should exist")
	assert.Equal(t, "fetch", cmd.Use,
		"Command name should be fetch")
}

// TestGetFetchCmd_ShortDescription verifies short
// description.
func TestGetFetchCmd_ShortDescription(t *testing.T) {
	cmd := getFetchCmd()

	assert.NotEmpty(t, cmd.Short,
		"Short description should not be empty")
	assert.Contains(t, cmd.Short, "observations.csv",
		"Short description should name the artifact")
}

// TestGetFetchCmd_HasRunE verifies run function is set.
func TestGetFetchCmd_HasRunE(t *testing.T) {
	cmd := getFetchCmd()

	assert.NotNil(t, cmd.RunE,
		"RunE should be set")
}

// TestGetFetchCmd_UserIDFlag verifies --user-id flag exists.
func TestGetFetchCmd_UserIDFlag(t *testing.T) {
	cmd := getFetchCmd()

	flag := cmd.Flags().Lookup("user-id")
	require.NotNil(t, flag,
		"--user-id flag should exist")

	assert.Equal(t, "u", flag.Shorthand,
		"Short form should be -u")
	assert.Contains(t, flag.Usage, "user",
		"Usage should mention the user")
}

// TestGetFetchCmd_ProjectIDFlag verifies --project-id
// flag exists.
func TestGetFetchCmd_ProjectIDFlag(t *testing.T) {
	cmd := getFetchCmd()

	flag := cmd.Flags().Lookup("project-id")
	require.NotNil(t, flag,
		"--project-id flag should exist")

	assert.Equal(t, "p", flag.Shorthand,
		"Short form should be -p")
	assert.Contains(t, flag.Usage, "project",
		"Usage should mention the project")
}

// TestGetFetchCmd_IconicTaxonFlag verifies the reserved
// --iconic-taxon flag exists and is documented as unused.
func TestGetFetchCmd_IconicTaxonFlag(t *testing.T) {
	cmd := getFetchCmd()

	flag := cmd.Flags().Lookup("iconic-taxon")
	require.NotNil(t, flag,
		"--iconic-taxon flag should exist")

	assert.Empty(t, flag.Shorthand,
		"Reserved flag should have no short form")
	assert.Contains(t, flag.Usage, "reserved",
		"Usage should mark the flag as reserved")
}

// TestGetFetchCmd_StrictFlag verifies --strict flag exists.
func TestGetFetchCmd_StrictFlag(t *testing.T) {
	cmd := getFetchCmd()

	flag := cmd.Flags().Lookup("strict")
	require.NotNil(t, flag,
		"--strict flag should exist")

	assert.Equal(t, "false", flag.DefValue,
		"Fetch should tolerate failed pages by default")
}

// TestGetFetchCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetFetchCmd_IndependentInstances(t *testing.T) {
	cmd1 := getFetchCmd()
	cmd2 := getFetchCmd()

	// Should be different instances
	assert.NotSame(t, cmd1, cmd2,
		"Each call should return new instance")

	cmd1.Short = "test1"
	cmd2.Short = "test2"

	assert.Equal(t, "test1", cmd1.Short)
	assert.Equal(t, "test2", cmd2.Short)
}
