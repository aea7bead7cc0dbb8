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

package internal

import (
	"errors"
)

// Every operation validates its inputs on entry and fails with one of the
// sentinels below; none of these conditions is retried internally.
var ErrInvalidDimensions = errors.New("input length or shape is not of the proper form")
var ErrInvalidBound = errors.New("input coordinate is out of the configured bound")
var ErrInvalidModulusPrime = errors.New("modulus prime is not NTT friendly")
var ErrParamSearchExhausted = errors.New("parameter search exhausted without a safe configuration")
var ErrDecryptOutOfRange = errors.New("decrypted value does not fit the output range")
