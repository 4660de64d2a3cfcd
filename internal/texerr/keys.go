package texerr

// Message keys. The TTP keys follow the numbering-free names of the
// TeX: The Program error messages.
const (
	KeyTooManyRightBraces = "TTP.TooManyRightBraces"
	KeyExtraOrForgotten   = "TTP.ExtraOrForgotten"
	KeyUndefinedToken     = "TTP.UndefinedToken"
	KeyInvalidPrefix      = "TTP.InvalidPrefix"
	KeyCantUseAfter       = "TTP.CantUseAfter"
	KeyArithOverflow      = "TTP.ArithOverflow"
	KeyMissingNumber      = "TTP.MissingNumber"
	KeyMissingLeftBrace   = "TTP.MissingLeftBrace"
	KeyMissingCtrlSeq     = "TTP.MissingCtrlSeq"
	KeyEOFinMatch         = "TTP.EOFinMatch"
	KeyIllegalUnit        = "TTP.IllegalUnit"
	KeyBadRegister        = "TTP.BadRegister"
	KeyNumberTooBig       = "TTP.NumberTooBig"
	KeyDimenTooLarge      = "TTP.DimenTooLarge"
	KeyIllegalMag         = "TTP.IllegalMag"
	KeyIncompatMag        = "TTP.IncompatMag"
	KeyErrorLimitReached  = "TTP.ErrorLimitReached"
	KeyInteractionUnknown = "TTP.InteractionUnknown"
	KeyNotPrimitive       = "TTP.NotPrimitive"

	KeyUnknownLoader    = "Config.UnknownLoader"
	KeyMissingAttribute = "Config.MissingAttribute"
	KeyClassNotFound    = "Config.ClassNotFound"
	KeyInstantiation    = "Config.Instantiation"
	KeyUnknownExtension = "Config.UnknownExtension"
	KeyInvalidClass     = "Config.InvalidClass"
	KeyDuplicateClass   = "Config.DuplicateClass"

	KeyPrimitivePanic = "Dispatcher.PrimitivePanic"

	KeyScriptError = "Lua.ScriptError"
)
