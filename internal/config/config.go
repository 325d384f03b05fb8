package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AddressBook"
	AppID             = "com.github.tartampluch.go-addressbook"
	BinaryName        = "go-addressbook"
	KeyringService    = "com.github.tartampluch.go-addressbook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	DatabaseFileName  = "contacts.db"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs, settings and the database.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion     = "version"
	FlagDebug       = "debug"
	FlagConfig      = "config"
	FlagURL         = "url"
	FlagUser        = "user"
	FlagFile        = "file"
	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stderr"
	FlagDescConfig  = "Path to the settings file"
	FlagDescURL     = "CardDAV or WebDAV URL to import vCards from"
	FlagDescUser    = "Username for HTTP Basic Auth (password is read from the keyring)"
	FlagDescFile    = "Local .vcf file"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	CmdShortRoot   = "Personal address book assistant"
	CmdShortServe  = "Publish upcoming birthdays as an iCalendar feed"
	CmdShortImport = "Import contacts from a vCard file or URL"
	CmdShortExport = "Export contacts as vCard 4.0 to stdout or a file"
	CmdShortLogin  = "Store the CardDAV password in the system keyring"
)

// -----------------------------------------------------------------------------
// Assistant Commands
// -----------------------------------------------------------------------------

const (
	CmdHello        = "hello"
	CmdAdd          = "add"
	CmdChange       = "change"
	CmdPhone        = "phone"
	CmdAll          = "all"
	CmdAddBirthday  = "add-birthday"
	CmdShowBirthday = "show-birthday"
	CmdBirthdays    = "birthdays"
	CmdDelete       = "delete"
	CmdExit         = "exit"
	CmdClose        = "close"

	Prompt = "Enter a command: "
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome         = "welcome"
	TKeyGoodbye         = "goodbye"
	TKeyHello           = "hello"
	TKeyInvalidCommand  = "invalid_command"
	TKeyMissingArgs     = "missing_args"
	TKeyContactNotFound = "contact_not_found"
	TKeyContactAdded    = "contact_added"
	TKeyContactUpdated  = "contact_updated"
	TKeyContactDeleted  = "contact_deleted"
	TKeyPhoneUpdated    = "phone_updated"
	TKeyNoContacts      = "no_contacts"
	TKeyNoPhones        = "no_phones"
	TKeyBirthdayAdded   = "birthday_added"
	TKeyBirthdayMissing = "birthday_not_found"
	TKeyNoBirthdays     = "no_birthdays"
	TKeyCongratulate    = "congratulate" // Requires Name, Date
	TKeyErrInvalidName  = "err_invalid_name"
	TKeyErrInvalidPhone = "err_invalid_phone"
	TKeyErrInvalidDate  = "err_invalid_date"
	TKeyErrPhoneMissing = "err_phone_not_found"
	TKeyErrInternal     = "err_internal"
	TKeyEvtSummary      = "event_summary" // Requires Name
)

// SupportedLanguages lists the bundled assistant languages (BCP 47).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort            = "18080"
	DefaultRefreshMin      = 60
	DefaultLanguage        = "en"
	DefaultHorizonDays     = 7
	DefaultReminderTrigger = "-P1D"
	DefaultLeapYear        = 2000 // Leap year fallback for vCard dates like --02-29
	UIDSalt                = "go-addressbook-v1-"
	DisabledInterval       = 0
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AddressBook//Engine//EN"
	ICalCalName   = "Congratulations"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goaddressbook"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DateFormatContact is the assistant-facing birthday format (DD.MM.YYYY).
	DateFormatContact = "02.01.2006"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrSourceMissing   = "configuration error: a file or a URL is required"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrHorizon         = "horizon_days must be positive"
	ErrLanguage        = "language is not a valid BCP 47 tag"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEncode     = "failed to encode vCard"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings"
	ErrSettingsParse   = "failed to parse settings"
	ErrSettingsWrite   = "failed to write settings"
	ErrStoreOpen       = "failed to open contact store"
	ErrStoreLoad       = "failed to load contacts"
	ErrStoreSave       = "failed to save contacts"
	ErrStoreCorrupt    = "stored contact is invalid"
	ErrKeyringGet      = "password retrieval failed"
	ErrKeyringSet      = "failed to save credentials to keyring"
	ErrReadInput       = "failed to read input"
	ErrUnexpectedReply = "unexpected error while handling command"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Congratulate %s"
	FallbackName    = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgWorkerStart    = "Refresh worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgRefreshFailed  = "Feed refresh failed"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgGenSuccess     = "Calendar generation successful"
	MsgCongratsToday  = "Congratulation due today"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedPhone   = "Skipping invalid phone number"
	MsgSkippedName    = "Skipping vCard without a usable name"
	MsgImportDone     = "vCard import finished"
	MsgExportDone     = "vCard export finished"
	MsgStoreLoaded    = "Contacts loaded"
	MsgStoreSaved     = "Contacts saved"
	MsgSettingsLoaded = "Settings loaded"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgCommand        = "Command handled"
	MsgPasswordSaved  = "Password stored in keyring"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgPasswordPrompt = "Password for %s: "
	MsgImportSummary  = "Imported %d contacts (%d skipped)\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeyRecords   = "records"
	LogKeyUpcoming  = "upcoming"
	LogKeyToday     = "congratulations_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyDate      = "date"
	LogKeyCommand   = "command"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompAssistant = "assistant"
	CompEngine    = "engine"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompStore     = "store"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
	CompConfig    = "config"
)
