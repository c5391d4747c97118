package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Сканер
	ScnInfo                   Code = 1000
	ScnUnterminatedComment    Code = 1001
	ScnUnterminatedInterp     Code = 1002
	ScnEOFInTag               Code = 1003
	ScnMissingTagName         Code = 1004
	ScnDuplicateAttribute     Code = 1005
	ScnUnexpectedCharInAttr   Code = 1006
	ScnMissingAttributeValue  Code = 1007
	ScnUnterminatedAttrValue  Code = 1008
	ScnUnexpectedSolidusInTag Code = 1009

	// Парсер
	PrsInfo               Code = 2000
	PrsMissingEndTag      Code = 2001
	PrsUnexpectedEndTag   Code = 2002
	PrsInvalidDirective   Code = 2003
	PrsUnclosedDynamicArg Code = 2004
	PrsVoidEndTag         Code = 2005

	// Конвертация AST -> IR
	CnvInfo                 Code = 3000
	CnvUnsupportedDirective Code = 3001
	CnvMissingExpression    Code = 3002
	CnvInvalidSlotOutlet    Code = 3003
	CnvMissingIs            Code = 3004
	CnvUnexpectedArgument   Code = 3005

	// Трансформации
	TrnInfo                Code = 4000
	TrnElseWithoutIf       Code = 4001
	TrnIfForConflict       Code = 4002
	TrnMultipleConditional Code = 4003
	TrnInvalidForExpr      Code = 4004
	TrnSlotOnElement       Code = 4005
	TrnMixedSlotUsage      Code = 4006
	TrnDuplicateSlot       Code = 4007
	TrnTemplateKeyMisplace Code = 4008

	// Эмиссия
	EmtInfo          Code = 5000
	EmtUnknownHelper Code = 5001
	EmtRefused       Code = 5002

	IOLoadFileError Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		ScnInfo:                   "Scanner information",
		ScnUnterminatedComment:    "Unterminated comment",
		ScnUnterminatedInterp:     "Unterminated interpolation",
		ScnEOFInTag:               "Unexpected end of file inside tag",
		ScnMissingTagName:         "Missing tag name",
		ScnDuplicateAttribute:     "Duplicate attribute",
		ScnUnexpectedCharInAttr:   "Unexpected character in attribute name",
		ScnMissingAttributeValue:  "Missing attribute value",
		ScnUnterminatedAttrValue:  "Unterminated attribute value",
		ScnUnexpectedSolidusInTag: "Unexpected '/' in tag",
		PrsInfo:                   "Parser information",
		PrsMissingEndTag:          "Element is missing end tag",
		PrsUnexpectedEndTag:       "Unexpected end tag",
		PrsInvalidDirective:       "Invalid directive syntax",
		PrsUnclosedDynamicArg:     "Dynamic directive argument is not closed",
		PrsVoidEndTag:             "Void element cannot have an end tag",
		CnvInfo:                   "Conversion information",
		CnvUnsupportedDirective:   "Unsupported directive",
		CnvMissingExpression:      "Directive requires an expression",
		CnvInvalidSlotOutlet:      "Invalid <slot> outlet",
		CnvMissingIs:              "<component> requires an 'is' binding",
		CnvUnexpectedArgument:     "Directive does not accept an argument",
		TrnInfo:                   "Transform information",
		TrnElseWithoutIf:          "v-else/v-else-if has no adjacent v-if",
		TrnIfForConflict:          "v-if and v-for on the same element",
		TrnMultipleConditional:    "Multiple conditional directives on one element",
		TrnInvalidForExpr:         "Invalid v-for expression",
		TrnSlotOnElement:          "v-slot can only be used on components or <template>",
		TrnMixedSlotUsage:         "Mixed v-slot usage on component and nested <template>",
		TrnDuplicateSlot:          "Duplicate slot name",
		TrnTemplateKeyMisplace:    "<template v-for> key should be placed on the <template> tag",
		EmtInfo:                   "Emission information",
		EmtUnknownHelper:          "Custom runtime helper has no name",
		EmtRefused:                "Emission refused because of earlier errors",
		IOLoadFileError:           "I/O load file error",
	}
)

// codeGroups maps the thousands digit of a code to its prefix and stage.
var codeGroups = [...]struct{ prefix, stage string }{
	1: {"SCN", "scan"},
	2: {"PRS", "parse"},
	3: {"CNV", "convert"},
	4: {"TRN", "transform"},
	5: {"EMT", "emit"},
	6: {"IO", "load"},
}

func (c Code) ID() string {
	g := int(c) / 1000
	if g < 1 || g >= len(codeGroups) {
		return "E0000"
	}
	return fmt.Sprintf("%s%04d", codeGroups[g].prefix, int(c))
}

// Stage names the compile stage a code belongs to, "" for unknown codes.
func (c Code) Stage() string {
	g := int(c) / 1000
	if g < 1 || g >= len(codeGroups) {
		return ""
	}
	return codeGroups[g].stage
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
