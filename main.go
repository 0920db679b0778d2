// SPDX-License-Identifier: MPL-2.0

package main

import cmd "bakery-cli/cmd/bakery"

func main() {
	cmd.Execute()
}
