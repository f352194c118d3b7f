package validate_test

import (
	"testing"

	"github.com/adamwoolhether/htdfsign/business/sys/validate"
)

type request struct {
	To     string `json:"to" validate:"required,htdfaddr"`
	Amount uint64 `json:"amount" validate:"required"`
}

func TestCheck(t *testing.T) {
	t.Log("Given the need to validate request models.")
	{
		ok := request{To: "htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkw", Amount: 1}
		if err := validate.Check(ok); err != nil {
			t.Fatalf("\tShould accept a valid model: %s", err)
		}

		bad := request{To: "htdf1w508d6qejxtdg4y5r3zarvary0c5xw7kxnzkkq"}
		err := validate.Check(bad)
		if err == nil {
			t.Fatal("\tShould reject an invalid model.")
		}

		fields := validate.GetFieldErrors(err).Fields()
		if fields["to"] != "to must be a valid htdf address" {
			t.Fatalf("\tShould translate the address error by json name, got %q", fields["to"])
		}
		if fields["amount"] == "" {
			t.Fatal("\tShould report the missing amount.")
		}
	}
}
