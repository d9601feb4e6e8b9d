package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Stage the Calamares installer configuration for Gentoo live media"
	MsgInstallShort    = "Copy the Calamares configuration into the system tree"
	MsgCleanShort      = "Remove everything a previous install staged"
	MsgStatusShort     = "Show the deployment state of every staged file"
	MsgVarsShort       = "Print the resolved path variables and where they came from"
	MsgCheckShort      = "Validate the payload without touching the system"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagFormat  = "Output format: auto, term, text, or json"
)

// Long messages
const (
	MsgRootLong = `calstage stages the Gentoo Calamares installer configuration: the
settings, module configs, job modules, branding, and desktop integration
files the live media installer runs from.

Paths follow the usual Makefile variables (PREFIX, DESTDIR, SYSCONFDIR,
LIBDIR, ...), passed as trailing VAR=value arguments or read from the
environment. See 'calstage help variables' for the full list.`

	MsgInstallLong = `Install copies the payload from SRCDIR into the system tree: settings,
module configs, and branding under SYSCONFDIR/calamares, job modules
under LIBDIR/calamares/modules, desktop integration files under DATADIR,
and the pkexec launcher under BINDIR.

Required files abort the install before anything is copied when missing;
optional artwork (icon, slideshow images) is skipped with a warning.
Everything lands under DESTDIR when one is set.`

	MsgInstallExample = `  # Stage into a build root
  calstage install DESTDIR=/tmp/image

  # Stage for a /usr/lib system
  calstage install LIBDIR=/usr/lib

  # Preview without writing
  calstage install --dry-run DESTDIR=/tmp/image`

	MsgCleanLong = `Clean removes every file install stages and prunes the directories that
become empty, deepest first. Removal is best effort: files that are
already gone are fine, files that cannot be removed produce a warning,
and directories holding foreign files are left alone.`

	MsgCleanExample = `  # Undo an install from the same source tree
  calstage clean DESTDIR=/tmp/image

  # Preview what would be removed
  calstage clean --dry-run DESTDIR=/tmp/image`

	MsgStatusLong = `Status compares every staged file against its source: installed when
content and permissions match, modified when they drifted, missing when
the target was never staged or has been removed.`

	MsgVarsLong = `Vars prints every path variable with its effective value and the layer
that supplied it: built-in default, config file, environment, or
command-line argument.`

	MsgVarsExample = `  # Show the defaults
  calstage vars

  # See how an override lands
  calstage vars PREFIX=/opt/calamares`

	MsgCheckLong = `Check validates the payload in SRCDIR without writing anywhere: YAML
configs must parse, module descriptors must name their type and script,
the desktop entry and AppStream metainfo must be well-formed, and the
launcher must carry a shebang. Missing optional artwork is reported but
does not fail the check.`
)
