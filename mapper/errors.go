package mapper

import (
	"errors"

	"shape-mapper/ir"
)

var (
	// ErrNotInitialized is returned by Map before Initialize ran.
	ErrNotInitialized = errors.New("mapper is not initialized")
	// ErrNoMapperFound is returned when no configuration exists for a key.
	ErrNoMapperFound = errors.New("no mapper found")
	// ErrMapperAlreadyExists is returned when a reverse mapping would replace
	// an existing configuration.
	ErrMapperAlreadyExists = errors.New("mapper already exists")
	// ErrNotSameTypeProperty is returned when a source expression cannot be
	// converted into the destination member type.
	ErrNotSameTypeProperty = errors.New("property types are not compatible")
	// ErrReadOnlyProperty is returned when binding into a member that cannot
	// be set.
	ErrReadOnlyProperty = errors.New("property is read-only")
	// ErrUnsupportedType is returned for shapes without writable members.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrMemberNotMapped is returned by the shape rewriter when a
	// configuration exists but does not bind the requested member.
	ErrMemberNotMapped = errors.New("member is not mapped")
	// ErrConfigurationSealed is returned when a configuration is changed after
	// its lambda was built.
	ErrConfigurationSealed = errors.New("configuration is already built")
	// ErrInvalidConverter is returned by RegisterConverter for functions of
	// an unsupported signature.
	ErrInvalidConverter = errors.New("invalid converter function")

	// ErrUnknownMember is returned when a member path does not exist.
	ErrUnknownMember = ir.ErrUnknownMember
)
