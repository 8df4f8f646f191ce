package mapper

import (
	"fmt"
	"strconv"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }
func twice(**int) string              { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func Example_parseConverter() {
	desc, err := parseConverter(full)
	fmt.Println(err, desc.Name, desc.Source.Kind(), desc.Dest.Kind(), desc.HasBool, desc.HasErr)

	desc, err = parseConverter(strconv.Itoa)
	fmt.Println(err, desc.Name, desc.Source.Kind(), desc.Dest.Kind(), desc.HasBool, desc.HasErr)

	desc, err = parseConverter(strconv.Atoi)
	fmt.Println(err, desc.Name, desc.Source.Kind(), desc.Dest.Kind(), desc.HasBool, desc.HasErr)

	desc, err = parseConverter(customError)
	fmt.Println(err, desc.Name, desc.Source.Kind(), desc.Dest.Kind(), desc.HasBool, desc.HasErr)

	_, err = parseConverter(empty)
	fmt.Println(err)

	_, err = parseConverter(wrong)
	fmt.Println(err)

	_, err = parseConverter(twice)
	fmt.Println(err)

	_, err = parseConverter(42)
	fmt.Println(err)

	// Output:
	// <nil> mapper.full int string true true
	// <nil> strconv.Itoa int string false false
	// <nil> strconv.Atoi string int false true
	// <nil> mapper.customError int string false true
	// invalid converter function: func()
	// invalid converter function: func(int) (string, error, bool)
	// invalid converter function: func(**int) string uses a double pointer
	// invalid converter function: int is not a function
}
