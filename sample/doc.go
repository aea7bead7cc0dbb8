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

// Package sample provides the random sources and samplers used by the scheme:
// uniform polynomial coefficients over [1, q), and the centered discrete
// Gaussian via either rounding of a continuous Gaussian (fast) or the FACCT
// CDT-plus-Bernoulli construction. All samplers draw from a caller-supplied
// PRNG so that fixing the PRNG fixes every key and ciphertext bit.
package sample
