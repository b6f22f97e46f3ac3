package fingerprint_test

import (
	"fmt"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
)

func ExampleExtract() {
	fp, err := fingerprint.Extract("2048 MD5:aa:bb:cc:dd:ee:ff:00:11:22:33:44:55:66:77:88:99 (RSA)")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(fp.Bytes), fp.Meta.KeySize, fp.Meta.KeyType, fp.Meta.Digest)
	// Output: 16 2048 RSA MD5
}

func ExampleValidate() {
	_, err := fingerprint.Validate("abc")
	fmt.Println(errors.GetCode(err))
	// Output: INVALID_FINGERPRINT_ODD_LENGTH
}
