/*

Package base provides base data structures and functions for gorse-sampler.

The base data structures and functions include:

* Random Generator

* Error Kinds

*/
package base
