package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/remit/internal/manifest"
)

const (
	testManifestFileNameConstant           = "manifest.xml"
	testBaseSourceURLConstant              = "https://gitlab.example.com"
	testDocumentOrderCaseNameConstant      = "document_order_preserved"
	testDefaultFallbackCaseNameConstant    = "default_element_fallback"
	testRelativeFetchCaseNameConstant      = "relative_fetch_resolves_to_base"
	testUndeclaredRemoteCaseNameConstant   = "undeclared_remote_rejected"
	testMissingProjectNameCaseNameConstant = "missing_project_name_rejected"
	testMalformedDocumentCaseNameConstant  = "malformed_document_rejected"
	testMissingFileCaseNameConstant        = "missing_file_rejected"
	testEmptyManifestCaseNameConstant      = "empty_manifest_yields_no_records"
	testDuplicateProjectsCaseNameConstant  = "duplicate_projects_kept"
)

const testOrderedManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
  <project path="one" name="group/project1" remote="origin" revision="main"/>
  <project path="two" name="group/project2" remote="origin" revision="master"/>
</manifest>`

const testDefaultFallbackManifestContentConstant = `<manifest>
  <remote name="mirror" fetch="https://mirror.example.com"/>
  <default remote="mirror" revision="develop"/>
  <project name="group/project"/>
</manifest>`

const testRelativeFetchManifestContentConstant = `<manifest>
  <remote name="origin" fetch=".."/>
  <project name="group/project" remote="origin" revision="main"/>
</manifest>`

const testUndeclaredRemoteManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
  <project name="group/project" remote="elsewhere" revision="main"/>
</manifest>`

const testMissingProjectNameManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
  <project path="nameless" remote="origin"/>
</manifest>`

const testMalformedManifestContentConstant = `<manifest><project name="group/project"`

const testEmptyManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
</manifest>`

const testDuplicateProjectsManifestContentConstant = `<manifest>
  <remote name="origin" fetch="https://gitlab.example.com"/>
  <project name="group/project" remote="origin" revision="main"/>
  <project name="group/project" remote="origin" revision="main"/>
</manifest>`

func writeManifestFile(testInstance *testing.T, manifestContent string) string {
	testInstance.Helper()
	manifestPath := filepath.Join(testInstance.TempDir(), testManifestFileNameConstant)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(manifestContent), 0o600))
	return manifestPath
}

func TestParserParseFile(testInstance *testing.T) {
	testCases := []struct {
		name            string
		manifestContent string
		expectErrorType any
		verify          func(testInstance *testing.T, records []manifest.ProjectRecord)
	}{
		{
			name:            testDocumentOrderCaseNameConstant,
			manifestContent: testOrderedManifestContentConstant,
			verify: func(testInstance *testing.T, records []manifest.ProjectRecord) {
				require.Len(testInstance, records, 2)
				require.Equal(testInstance, "group/project1", records[0].FullName)
				require.Equal(testInstance, "group/project2", records[1].FullName)
				require.Equal(testInstance, "main", records[0].Revision)
				require.Equal(testInstance, "master", records[1].Revision)
				require.Equal(testInstance, "https://gitlab.example.com/group/project1.git", records[0].SourceCloneURL)
				require.Equal(testInstance, "project1", records[0].ShortName())
			},
		},
		{
			name:            testDefaultFallbackCaseNameConstant,
			manifestContent: testDefaultFallbackManifestContentConstant,
			verify: func(testInstance *testing.T, records []manifest.ProjectRecord) {
				require.Len(testInstance, records, 1)
				require.Equal(testInstance, "mirror", records[0].RemoteName)
				require.Equal(testInstance, "develop", records[0].Revision)
				require.Equal(testInstance, "https://mirror.example.com/group/project.git", records[0].SourceCloneURL)
			},
		},
		{
			name:            testRelativeFetchCaseNameConstant,
			manifestContent: testRelativeFetchManifestContentConstant,
			verify: func(testInstance *testing.T, records []manifest.ProjectRecord) {
				require.Len(testInstance, records, 1)
				require.Equal(testInstance, testBaseSourceURLConstant+"/group/project.git", records[0].SourceCloneURL)
			},
		},
		{
			name:            testUndeclaredRemoteCaseNameConstant,
			manifestContent: testUndeclaredRemoteManifestContentConstant,
			expectErrorType: manifest.ValidationError{},
		},
		{
			name:            testMissingProjectNameCaseNameConstant,
			manifestContent: testMissingProjectNameManifestContentConstant,
			expectErrorType: manifest.ValidationError{},
		},
		{
			name:            testMalformedDocumentCaseNameConstant,
			manifestContent: testMalformedManifestContentConstant,
			expectErrorType: manifest.ParseError{},
		},
		{
			name:            testEmptyManifestCaseNameConstant,
			manifestContent: testEmptyManifestContentConstant,
			verify: func(testInstance *testing.T, records []manifest.ProjectRecord) {
				require.Empty(testInstance, records)
			},
		},
		{
			name:            testDuplicateProjectsCaseNameConstant,
			manifestContent: testDuplicateProjectsManifestContentConstant,
			verify: func(testInstance *testing.T, records []manifest.ProjectRecord) {
				require.Len(testInstance, records, 2)
				require.Equal(testInstance, records[0].FullName, records[1].FullName)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manifestPath := writeManifestFile(testInstance, testCase.manifestContent)
			parser := manifest.NewParser(testBaseSourceURLConstant)

			records, parseError := parser.ParseFile(manifestPath)
			if testCase.expectErrorType != nil {
				require.Error(testInstance, parseError)
				require.IsType(testInstance, testCase.expectErrorType, parseError)
				require.Empty(testInstance, records)
			} else {
				require.NoError(testInstance, parseError)
				testCase.verify(testInstance, records)
			}
		})
	}
}

func TestParserParseFileMissingFile(testInstance *testing.T) {
	testInstance.Run(testMissingFileCaseNameConstant, func(testInstance *testing.T) {
		parser := manifest.NewParser(testBaseSourceURLConstant)
		records, parseError := parser.ParseFile(filepath.Join(testInstance.TempDir(), testManifestFileNameConstant))
		require.Error(testInstance, parseError)
		require.IsType(testInstance, manifest.ParseError{}, parseError)
		require.Empty(testInstance, records)
	})
}
