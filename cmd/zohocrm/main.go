// Command zohocrm queries a CRM account from the command line.
package main

func main() {
	Execute()
}
