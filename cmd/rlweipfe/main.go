/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command rlweipfe drives the scheme from the shell. Several subcommands may
// be chained in a single invocation; parameters and keys produced by an
// earlier subcommand stay in process and are reused by later ones unless a
// file flag overrides them:
//
//	rlweipfe genParams -l 4 -x 10 -y 10 genSecretKey -o msk.bin genPublicKey -o mpk.bin
package main

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"sort"
	"time"

	"github.com/zeebo/blake3"

	"github.com/fentec-project/rlwe-ipfe/data"
	"github.com/fentec-project/rlwe-ipfe/ipfe"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

var commands = map[string]func(args []string) error{}

func init() {
	commands["genParams"] = genParams
	commands["genSecretKey"] = genSecretKey
	commands["genPublicKey"] = genPublicKey
	commands["deriveFuncKey"] = deriveFuncKey
	commands["encrypt"] = encrypt
	commands["decrypt"] = decrypt
	commands["decryptAll"] = decryptAll
	commands["randomVector"] = randomVector
	commands["randomMatrix"] = randomMatrix
	commands["testDot"] = testDot
}

// State shared by chained subcommands within one invocation.
var (
	prng   = sample.NewPRNG()
	scheme *ipfe.RLWE
	msk    *ipfe.SecretKey
	mpk    *ipfe.PublicKey
	skY    *ipfe.FunctionKey
)

func main() {
	log.SetFlags(0)
	args := os.Args[1:]
	var cmdi []int
	for i, arg := range args {
		if _, ok := commands[arg]; ok {
			cmdi = append(cmdi, i)
		}
	}
	if len(cmdi) == 0 {
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("Valid commands: %v\n", names)
		return
	}
	cmdi = append(cmdi, len(args))
	for i := 0; i < len(cmdi)-1; i++ {
		cmd := args[cmdi[i]]
		if err := commands[cmd](args[cmdi[i]+1 : cmdi[i+1]]); err != nil {
			log.Printf("%s: %v", cmd, err)
			os.Exit(1)
		}
	}
}

func genParams(args []string) error {
	fs := flag.NewFlagSet("genParams", flag.ContinueOnError)
	l := fs.Int("l", 0, "length of vectors")
	n := fs.Int("n", 1, "number of secret vectors")
	x := fs.Int64("x", 0, "bound of secret vectors")
	y := fs.Int64("y", 0, "bound of function vector")
	k := fs.Int("k", 128, "security parameter")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *l == 0 || *x == 0 || *y == 0 {
		return fmt.Errorf("flags -l, -x and -y are required")
	}
	err := timed("Generating parameters", func() error {
		var err error
		scheme, err = ipfe.Generate(*k, *l, *n, *x, *y)
		return err
	})
	if err != nil {
		return err
	}
	if *o != "" {
		return writeObject(*o, scheme.Params)
	}
	return nil
}

func genSecretKey(args []string) error {
	fs := flag.NewFlagSet("genSecretKey", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	err := timed("Generating secret key", func() error {
		var err error
		msk, err = scheme.GenerateSecretKey(prng)
		return err
	})
	if err != nil {
		return err
	}
	if *o != "" {
		return writeObject(*o, msk)
	}
	return nil
}

func genPublicKey(args []string) error {
	fs := flag.NewFlagSet("genPublicKey", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	k := fs.String("k", "", "secret key file")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	if err := loadSecretKey(*k); err != nil {
		return err
	}
	err := timed("Generating public key", func() error {
		var err error
		mpk, err = scheme.GeneratePublicKey(msk, prng)
		return err
	})
	if err != nil {
		return err
	}
	if *o != "" {
		return writeObject(*o, mpk)
	}
	return nil
}

func deriveFuncKey(args []string) error {
	fs := flag.NewFlagSet("deriveFuncKey", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	y := fs.String("y", "", "function vector file")
	k := fs.String("k", "", "secret key file")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *y == "" {
		return fmt.Errorf("flag -y is required")
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	if err := loadSecretKey(*k); err != nil {
		return err
	}
	log.Printf("Reading function vector from %s", *y)
	vy, err := data.ReadVector(*y)
	if err != nil {
		return err
	}
	err = timed("Deriving function key", func() error {
		var err error
		skY, err = scheme.DeriveFunctionKey(vy, msk)
		return err
	})
	if err != nil {
		return err
	}
	if *o != "" {
		return writeObject(*o, skY)
	}
	return nil
}

func encrypt(args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	x := fs.String("x", "", "secret matrix file")
	k := fs.String("k", "", "public key file")
	s := fs.Bool("s", false, "encrypt single")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *x == "" || *o == "" {
		return fmt.Errorf("flags -x and -o are required")
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	if *k != "" {
		log.Printf("Reading public key from %s", *k)
		key, err := readObject[ipfe.PublicKey](*k)
		if err != nil {
			return err
		}
		mpk = key
	}
	if mpk == nil {
		return fmt.Errorf("public key missing")
	}
	log.Printf("Reading secret matrix from %s", *x)
	mx, err := data.ReadMatrix(*x)
	if err != nil {
		return err
	}
	var ct *ipfe.Ciphertext
	err = timed("Encrypting", func() error {
		var err error
		if *s {
			ct, err = scheme.EncryptSingle(mx[0], mpk, prng)
		} else {
			ct, err = scheme.EncryptMulti(mx, mpk, prng)
		}
		return err
	})
	if err != nil {
		return err
	}
	return writeObject(*o, ct)
}

func decrypt(args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	c := fs.String("c", "", "ciphertext file")
	k := fs.String("k", "", "function key file")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *c == "" {
		return fmt.Errorf("flag -c is required")
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	log.Printf("Reading ciphertext from %s", *c)
	ct, err := readObject[ipfe.Ciphertext](*c)
	if err != nil {
		return err
	}
	if *k != "" {
		log.Printf("Reading function key from %s", *k)
		key, err := readObject[ipfe.FunctionKey](*k)
		if err != nil {
			return err
		}
		skY = key
	}
	if skY == nil {
		return fmt.Errorf("function key missing")
	}
	var xy []*big.Int
	err = timed("Decrypting", func() error {
		var err error
		xy, err = scheme.Decrypt(ct, skY)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("Result: %v", xy)
	if *o != "" {
		return data.WriteBigVector(*o, xy)
	}
	return nil
}

func decryptAll(args []string) error {
	fs := flag.NewFlagSet("decryptAll", flag.ContinueOnError)
	p := fs.String("p", "", "params file")
	c := fs.String("c", "", "ciphertext file")
	k := fs.String("k", "", "secret key file")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *c == "" || *o == "" {
		return fmt.Errorf("flags -c and -o are required")
	}
	if err := loadParams(*p); err != nil {
		return err
	}
	if err := loadSecretKey(*k); err != nil {
		return err
	}
	log.Printf("Reading ciphertext from %s", *c)
	ct, err := readObject[ipfe.Ciphertext](*c)
	if err != nil {
		return err
	}
	var x data.Matrix
	err = timed("Decrypting", func() error {
		var err error
		x, err = scheme.DecryptAll(ct, msk)
		return err
	})
	if err != nil {
		return err
	}
	log.Printf("Writing result to %s", *o)
	return x.WriteMatrix(*o)
}

func randomVector(args []string) error {
	fs := flag.NewFlagSet("randomVector", flag.ContinueOnError)
	l := fs.Int("l", 0, "vector length")
	b := fs.Int64("b", 0, "vector bounds")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *l == 0 || *b == 0 || *o == "" {
		return fmt.Errorf("flags -l, -b and -o are required")
	}
	vec, err := data.NewRandomVector(*l, data.Abs(*b), prng)
	if err != nil {
		return err
	}
	log.Printf("Writing random vector to %s", *o)
	return vec.WriteVector(*o)
}

func randomMatrix(args []string) error {
	fs := flag.NewFlagSet("randomMatrix", flag.ContinueOnError)
	c := fs.Int("c", 0, "matrix columns")
	r := fs.Int("r", 0, "matrix rows")
	b := fs.Int64("b", 0, "matrix bounds")
	o := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *c == 0 || *r == 0 || *b == 0 || *o == "" {
		return fmt.Errorf("flags -c, -r, -b and -o are required")
	}
	mat, err := data.NewRandomMatrix(*r, *c, data.Abs(*b), prng)
	if err != nil {
		return err
	}
	log.Printf("Writing random matrix to %s", *o)
	return mat.WriteMatrix(*o)
}

func testDot(args []string) error {
	fs := flag.NewFlagSet("testDot", flag.ContinueOnError)
	x := fs.String("x", "", "matrix file")
	y := fs.String("y", "", "vector file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *x == "" || *y == "" {
		return fmt.Errorf("flags -x and -y are required")
	}
	mat, err := data.ReadMatrix(*x)
	if err != nil {
		return err
	}
	vec, err := data.ReadVector(*y)
	if err != nil {
		return err
	}
	res, err := mat.MulVec(vec)
	if err != nil {
		return err
	}
	log.Printf("Result: %v", res)
	return nil
}

func loadParams(path string) error {
	if path != "" {
		log.Printf("Reading parameters from %s", path)
		params, err := readObject[ipfe.Params](path)
		if err != nil {
			return err
		}
		scheme = ipfe.NewRLWE(params)
	}
	if scheme == nil {
		return fmt.Errorf("parameters missing")
	}
	return nil
}

func loadSecretKey(path string) error {
	if path != "" {
		log.Printf("Reading secret key from %s", path)
		key, err := readObject[ipfe.SecretKey](path)
		if err != nil {
			return err
		}
		msk = key
	}
	if msk == nil {
		return fmt.Errorf("secret key missing")
	}
	return nil
}

func timed(name string, f func() error) error {
	log.Print(name)
	start := time.Now()
	if err := f(); err != nil {
		return err
	}
	log.Printf("%s done in %f ms", name, float64(time.Since(start).Nanoseconds())/1e6)
	return nil
}

func writeObject(path string, obj interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("Wrote %s (%d bytes, %s)", path, buf.Len(), fingerprint(buf.Bytes()))
	return nil
}

func readObject[T any](path string) (*T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	obj := new(T)
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(obj); err != nil {
		return nil, err
	}
	log.Printf("Read %s (%d bytes, %s)", path, len(raw), fingerprint(raw))
	return obj, nil
}

func fingerprint(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
