package main

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 14:00
 */

func main() {
	cli := &CommandLine{}
	cli.Run()
}
