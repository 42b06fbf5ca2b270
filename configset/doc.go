// Package configset is an in-memory cache for config files in the format of
// .gitconfig and .gitmodules.
//
// # Usage
//
// Create a ConfigSet, add files in increasing order of precedence and query
// it with the typed getters:
//
//	cs := configset.New()
//	if err := cs.AddFiles("/etc/gitconfig", home+"/.gitconfig", ".git/config"); err != nil {
//	    return err
//	}
//	editor, ok, err := cs.GetString("core.editor")
//
// Every getter returns the value, whether the key was found, and an error.
// A missing key is not an error: ok is false and err is nil.
//
// # Precedence
//
// Directives are kept in load order: files in the order they were added,
// and lines in file order within each file. The getters always use the last
// directive for a key, so a later file overrides an earlier one and a later
// line overrides an earlier line of the same file. Keys that a later file
// does not mention keep their earlier values. GetAll returns every value.
//
// # Keys
//
// Keys are written as section.name or section.subsection.name. Section and
// name are case-insensitive; the subsection is case-sensitive when it was
// given in quotes ([remote "Origin"]). The legacy [section.subsection]
// header form is case-insensitive throughout.
//
// include and includeIf directives are not expanded. They are stored like
// any other key (include.path, includeif.<condition>.path) so callers can
// decide how to handle them.
//
// # Errors
//
// AddFiles returns an error wrapping *fs.PathError when a file cannot be
// read and a *ParseError with the file and line on syntax errors. A file
// that fails to load leaves the set as it was before that file.
//
// The typed getters return a *TypeError wrapping ErrInvalidValue or
// ErrOutOfRange when a value does not convert, and ErrInvalidKey when the
// key itself is malformed.
//
// # Concurrency
//
// A ConfigSet may be queried from several goroutines. Loading takes an
// exclusive lock per file, so readers never observe a partially added file.
package configset
