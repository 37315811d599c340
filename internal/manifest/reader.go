package manifest

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const (
	manifestReadErrorTemplateConstant         = "unable to read manifest %s: %v"
	manifestDecodeErrorTemplateConstant       = "unable to decode manifest %s: %v"
	undeclaredRemoteMessageTemplateConstant   = "project %s references undeclared remote %q"
	projectNameMissingMessageTemplateConstant = "project element %d is missing a name attribute"
	sourceURLTemplateConstant                 = "%s/%s.git"
	httpSchemePrefixConstant                  = "http://"
	httpsSchemePrefixConstant                 = "https://"
	urlPathSeparatorConstant                  = "/"
	defaultRemoteNameConstant                 = "origin"
	defaultRevisionNameConstant               = "main"
)

// ProjectRecord describes one project entry resolved from the manifest.
type ProjectRecord struct {
	LocalPath      string
	FullName       string
	RemoteName     string
	Revision       string
	SourceCloneURL string
}

// ShortName returns the last path segment of the project's full name.
func (record ProjectRecord) ShortName() string {
	segments := strings.Split(record.FullName, urlPathSeparatorConstant)
	return segments[len(segments)-1]
}

// ParseError indicates the manifest file could not be read or decoded.
type ParseError struct {
	ManifestPath string
	Cause        error
	decodeStage  bool
}

// Error describes the parse failure.
func (parseError ParseError) Error() string {
	if parseError.decodeStage {
		return fmt.Sprintf(manifestDecodeErrorTemplateConstant, parseError.ManifestPath, parseError.Cause)
	}
	return fmt.Sprintf(manifestReadErrorTemplateConstant, parseError.ManifestPath, parseError.Cause)
}

// Unwrap exposes the underlying read or decode error.
func (parseError ParseError) Unwrap() error {
	return parseError.Cause
}

// ValidationError indicates the manifest content is structurally valid XML but semantically inconsistent.
type ValidationError struct {
	Message string
}

// Error describes the validation failure.
func (validationError ValidationError) Error() string {
	return validationError.Message
}

type manifestDocument struct {
	XMLName  xml.Name         `xml:"manifest"`
	Remotes  []remoteElement  `xml:"remote"`
	Defaults *defaultElement  `xml:"default"`
	Projects []projectElement `xml:"project"`
}

type remoteElement struct {
	Name  string `xml:"name,attr"`
	Fetch string `xml:"fetch,attr"`
}

type defaultElement struct {
	Remote   string `xml:"remote,attr"`
	Revision string `xml:"revision,attr"`
}

type projectElement struct {
	Path     string `xml:"path,attr"`
	Name     string `xml:"name,attr"`
	Remote   string `xml:"remote,attr"`
	Revision string `xml:"revision,attr"`
}

// Parser resolves manifest files into project records.
type Parser struct {
	baseSourceURL string
}

// NewParser constructs a Parser that resolves relative fetch URLs against the provided base source URL.
func NewParser(baseSourceURL string) *Parser {
	return &Parser{baseSourceURL: strings.TrimRight(strings.TrimSpace(baseSourceURL), urlPathSeparatorConstant)}
}

// ParseFile reads the manifest at the provided path and returns project records in document order.
func (parser *Parser) ParseFile(manifestPath string) ([]ProjectRecord, error) {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return nil, ParseError{ManifestPath: manifestPath, Cause: readError}
	}

	return parser.parse(manifestPath, manifestContent)
}

func (parser *Parser) parse(manifestPath string, manifestContent []byte) ([]ProjectRecord, error) {
	var document manifestDocument
	if decodeError := xml.Unmarshal(manifestContent, &document); decodeError != nil {
		return nil, ParseError{ManifestPath: manifestPath, Cause: decodeError, decodeStage: true}
	}

	remoteFetchURLs := make(map[string]string, len(document.Remotes))
	for _, remote := range document.Remotes {
		remoteFetchURLs[strings.TrimSpace(remote.Name)] = strings.TrimSpace(remote.Fetch)
	}

	defaultRemoteName := defaultRemoteNameConstant
	defaultRevisionName := defaultRevisionNameConstant
	if document.Defaults != nil {
		if trimmedRemote := strings.TrimSpace(document.Defaults.Remote); len(trimmedRemote) > 0 {
			defaultRemoteName = trimmedRemote
		}
		if trimmedRevision := strings.TrimSpace(document.Defaults.Revision); len(trimmedRevision) > 0 {
			defaultRevisionName = trimmedRevision
		}
	}

	projectRecords := make([]ProjectRecord, 0, len(document.Projects))
	for projectIndex, project := range document.Projects {
		fullName := strings.TrimSpace(project.Name)
		if len(fullName) == 0 {
			return nil, ValidationError{Message: fmt.Sprintf(projectNameMissingMessageTemplateConstant, projectIndex)}
		}

		remoteName := strings.TrimSpace(project.Remote)
		if len(remoteName) == 0 {
			remoteName = defaultRemoteName
		}

		fetchURL, remoteDeclared := remoteFetchURLs[remoteName]
		if !remoteDeclared {
			return nil, ValidationError{Message: fmt.Sprintf(undeclaredRemoteMessageTemplateConstant, fullName, remoteName)}
		}

		revision := strings.TrimSpace(project.Revision)
		if len(revision) == 0 {
			revision = defaultRevisionName
		}

		projectRecords = append(projectRecords, ProjectRecord{
			LocalPath:      strings.TrimSpace(project.Path),
			FullName:       fullName,
			RemoteName:     remoteName,
			Revision:       revision,
			SourceCloneURL: fmt.Sprintf(sourceURLTemplateConstant, parser.resolveFetchBase(fetchURL), fullName),
		})
	}

	return projectRecords, nil
}

func (parser *Parser) resolveFetchBase(fetchURL string) string {
	trimmedFetchURL := strings.TrimRight(fetchURL, urlPathSeparatorConstant)
	if strings.HasPrefix(trimmedFetchURL, httpSchemePrefixConstant) || strings.HasPrefix(trimmedFetchURL, httpsSchemePrefixConstant) {
		return trimmedFetchURL
	}
	return parser.baseSourceURL
}
