package check_test

import (
	"context"
	"fmt"

	"github.com/markpock/Validation/check"
	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/signature"
)

func ExampleWrap() {
	greet := func(name any) (string, error) {
		return "hello " + name.(string), nil
	}

	checked, err := check.Wrap(greet,
		signature.WithNames("name"),
		signature.WithConstraint("name", constraint.For[string]()))
	if err != nil {
		panic(err)
	}

	fn := checked.Func()

	msg, _ := fn("Ada")
	fmt.Println(msg)

	_, err = fn(42)
	fmt.Println(err)

	// Output:
	// hello Ada
	// argument name was passed incorrectly, of type int, should be of type string
}

func ExampleChecked_Call() {
	register := check.MustWrap(func(name string, id any, weight any) string {
		return fmt.Sprintf("%s #%v (%v)", name, id, weight)
	},
		signature.WithNames("name", "id", "weight"),
		signature.WithConstraintExpr("id", "int"),
		signature.WithConstraintExpr("weight", "int | float64"),
		signature.WithDefault("id", 1000),
		signature.WithDefault("weight", 100),
	)

	ctx := context.Background()

	results, _ := register.Call(ctx, "Ada", 7, 9.5)
	fmt.Println(results[0])

	results, _ = register.Call(ctx, "Grace")
	fmt.Println(results[0])

	_, err := register.Call(ctx, 7, "x", true)
	fmt.Println(err)

	// Output:
	// Ada #7 (9.5)
	// Grace #1000 (100)
	// arguments name, id, weight were passed incorrectly, of types int, string, bool, should be of types string, int, int | float64
}
